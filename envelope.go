package apidef

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Envelope is a decoded API response. Exactly one side is meaningful:
// when Err is non-nil the call failed and Data is nil, otherwise Data holds
// the result (which may itself be nil).
type Envelope struct {
	Err  error
	Data any
}

// Failed reports whether the envelope carries an error.
func (e Envelope) Failed() bool {
	return e.Err != nil
}

// OutputFormatter turns a handler result into a status code and a body
// that is written as JSON.
type OutputFormatter func(data any, err error) (status int, body any)

// ReverseFormatter decodes a raw response body back into an Envelope.
// A non-nil error means the body could not be decoded at all.
type ReverseFormatter func(body []byte) (Envelope, error)

// OutputError is the error side of the default envelope.
type OutputError struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message"`
}

func (e *OutputError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("api error %d: %s", e.Code, e.Message)
	}
	return "api error: " + e.Message
}

type envelopeBody struct {
	Error *OutputError `json:"error"`
	Data  any          `json:"data"`
}

type rawEnvelopeBody struct {
	Error json.RawMessage `json:"error"`
	Data  json.RawMessage `json:"data"`
}

// DefaultOutputFormatter writes {"error":null,"data":...} with 200 on
// success and {"error":{"code":..,"message":..},"data":null} on failure.
// OutputError defaults to 400 and HTTPError codes are kept; any other error
// becomes a 500.
func DefaultOutputFormatter(data any, err error) (int, any) {
	if err == nil {
		return http.StatusOK, envelopeBody{Data: data}
	}

	var oe *OutputError
	if errors.As(err, &oe) {
		resolved := *oe
		if resolved.Code == 0 {
			resolved.Code = http.StatusBadRequest
		}
		return resolved.Code, envelopeBody{Error: &resolved}
	}

	code := http.StatusInternalServerError
	msg := err.Error()
	var he *HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = he.MessageString()
	}
	return code, envelopeBody{Error: &OutputError{Code: code, Message: msg}}
}

// DefaultReverseFormatter is the inverse of DefaultOutputFormatter.
// A JSON null or missing "error" means success.
func DefaultReverseFormatter(body []byte) (Envelope, error) {
	var raw rawEnvelopeBody
	if err := json.Unmarshal(body, &raw); err != nil {
		return Envelope{}, fmt.Errorf("apidef: decode response envelope: %w", err)
	}

	if len(raw.Error) > 0 && !bytes.Equal(raw.Error, []byte("null")) {
		oe := &OutputError{}
		if err := json.Unmarshal(raw.Error, oe); err != nil {
			// Non-object errors such as "not found" become the message.
			var msg any
			if err := json.Unmarshal(raw.Error, &msg); err != nil {
				return Envelope{}, fmt.Errorf("apidef: decode envelope error: %w", err)
			}
			oe.Message = fmt.Sprint(msg)
		}
		return Envelope{Err: oe}, nil
	}

	var data any
	if len(raw.Data) > 0 {
		if err := json.Unmarshal(raw.Data, &data); err != nil {
			return Envelope{}, fmt.Errorf("apidef: decode envelope data: %w", err)
		}
	}
	return Envelope{Data: data}, nil
}
