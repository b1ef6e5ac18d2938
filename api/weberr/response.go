package weberr

import "errors"

type responder interface {
	Response() (body interface{}, status int)
}

// Response extracts the HTTP response attached to err, if any error in its
// chain carries one.
func Response(err error) (body interface{}, status int, ok bool) {
	var re responder
	if errors.As(err, &re) {
		b, code := re.Response()
		return b, code, true
	}
	return nil, 0, false
}

type responseError struct {
	error
	body   interface{}
	status int
}

func (e *responseError) Response() (interface{}, int) {
	return e.body, e.status
}

func (e *responseError) Unwrap() error {
	return e.error
}
