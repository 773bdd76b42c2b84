package rpc

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/mrops-br/products-catalog/internal/app/dto"
	"github.com/mrops-br/products-catalog/internal/domain"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const errorDomain = "products-catalog"

// toStatus converts a service error into a gRPC status. Domain errors keep
// their code and status classification in an ErrorInfo detail.
func toStatus(err error) error {
	if de, ok := domain.AsError(err); ok {
		st := status.New(codeFor(de.Status), de.Message)
		detailed, derr := st.WithDetails(&errdetails.ErrorInfo{
			Reason:   string(de.Code),
			Domain:   errorDomain,
			Metadata: map[string]string{"status": strconv.Itoa(de.Status)},
		})
		if derr != nil {
			return st.Err()
		}
		return detailed.Err()
	}

	if isValidation(err) {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

// fromStatus rebuilds the domain error carried by a gRPC status, if any
func fromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	for _, d := range st.Details() {
		info, ok := d.(*errdetails.ErrorInfo)
		if !ok || info.GetDomain() != errorDomain {
			continue
		}
		code, convErr := strconv.Atoi(info.GetMetadata()["status"])
		if convErr != nil {
			code = http.StatusBadRequest
		}
		return &domain.Error{
			Code:    domain.ErrorCode(info.GetReason()),
			Status:  code,
			Message: st.Message(),
		}
	}
	return err
}

func codeFor(httpStatus int) codes.Code {
	switch httpStatus {
	case http.StatusBadRequest:
		return codes.InvalidArgument
	case http.StatusNotFound:
		return codes.NotFound
	default:
		return codes.Internal
	}
}

func isValidation(err error) bool {
	return errors.Is(err, domain.ErrInvalidProductName) ||
		errors.Is(err, domain.ErrInvalidProductPrice) ||
		errors.Is(err, dto.ErrInvalidPagination) ||
		errors.Is(err, dto.ErrInvalidProductIDs) ||
		errors.Is(err, errInvalidProductID)
}
