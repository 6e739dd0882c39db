package auth

import "errors"

var ErrUserAlreadyExists = errors.New("user already exists")
var ErrMalformedUserSpec = errors.New("user must be given as name:password")
