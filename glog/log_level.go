package glog

const (
	// generic error message
	LV_ERR_DETAIL = 1
	// error stack or DEBUG
	LV_ERR_STACK = 2

	LV_PARAMS   = 1 // exchange
	LV_EXCHANGE = 1 // exchange
	LV_CONFIG   = 2 // config

	LV_PRIME_SEARCH = 2 // prime
	LV_ROOT_SEARCH  = 2 // prime
	LV_CACHE        = 3 // prime
	LV_WITNESS      = 4 // prime

	LV_DUMP = 5 // exchange
)
