package fulldates

import "errors"

var (
	// ErrCacheMiss возвращается, когда значения нет в кэше
	ErrCacheMiss = errors.New("fulldates.cache: miss")

	// ErrCache возвращается при ошибках обращения к redis
	ErrCache = errors.New("fulldates.cache: redis error")
)
