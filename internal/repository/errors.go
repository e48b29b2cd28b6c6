package repository

import "errors"

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUserNotFound    = errors.New("user not found")
	ErrContentNotFound = errors.New("content not found")
	ErrStoryNotFound   = errors.New("story not found")
	ErrSelfFollow      = errors.New("cannot follow yourself")
)
