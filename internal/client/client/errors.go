package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/cahierdeveille/internal/common"
	"github.com/dmitrijs2005/cahierdeveille/internal/netx"
)

var ErrUnavailable = errors.New("server unavailable")

func (c *Client) mapError(err error) error {
	if err == nil {
		return nil
	}

	var se *netx.StatusError
	if !errors.As(err, &se) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	switch se.StatusCode {
	case http.StatusBadRequest:
		if se.Message != "" {
			return common.NewValidationError(se.Message)
		}
		return common.ErrorValidation
	case http.StatusUnauthorized:
		return common.ErrorUnauthorized
	case http.StatusNotFound:
		return common.ErrorNotFound
	case http.StatusConflict:
		return common.ErrorAlreadyExists
	}
	return err
}
