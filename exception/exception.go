package exception

import (
	"errors"
	"fmt"
	"runtime"

	log "github.com/Lafeng/dhlab/glog"
)

// injectable
var DEBUG bool

// exit codes of the root kinds
const (
	EX_GENERIC    = 1
	EX_INPUT      = 2
	EX_ARITHMETIC = 3
	EX_EXHAUSTED  = 4
	EX_CONFIG     = 5
	EX_PROTOCOL   = 6
)

// root kinds, every package sentinel derives from one of them
var (
	InvalidInput            = New(EX_INPUT, "Invalid input")
	ArithmeticInconsistency = New(EX_ARITHMETIC, "Arithmetic inconsistency")
	SearchExhausted         = New(EX_EXHAUSTED, "Search exhausted")
	ConfigError             = New(EX_CONFIG, "Config error")
	ProtocolViolation       = New(EX_PROTOCOL, "Protocol violation")
)

type Exception struct {
	msg    string
	code   int
	origin *Exception
}

func (e *Exception) Error() string {
	return e.msg
}

func (e *Exception) Code() int {
	return e.code
}

// Apply returns a copy decorated with appendage. The copy still matches e
// and everything e derives from under errors.Is.
func (e *Exception) Apply(appendage interface{}) *Exception {
	return &Exception{
		msg:    fmt.Sprintf("%s %v", e.msg, appendage),
		code:   e.code,
		origin: e,
	}
}

// Derive creates a new sentinel of the same kind as e.
func (e *Exception) Derive(msg string) *Exception {
	return &Exception{msg: msg, code: e.code, origin: e}
}

func (e *Exception) Is(target error) bool {
	t, ok := target.(*Exception)
	if !ok {
		return false
	}
	for o := e; o != nil; o = o.origin {
		if o == t {
			return true
		}
	}
	return false
}

func New(code int, msg string) *Exception {
	return &Exception{msg: msg, code: code}
}

// ExitCode of err: the code of the first exception in its chain,
// EX_GENERIC otherwise.
func ExitCode(err error) int {
	var e *Exception
	if errors.As(err, &e) && e.Code() > 0 {
		return e.Code()
	}
	return EX_GENERIC
}

func Detail(err error) string {
	if err != nil && (log.V(log.LV_ERR_DETAIL) == true || DEBUG) {
		return fmt.Sprintf("(Error:%T::%s)", err, err)
	}
	return ""
}

// if ( [re] != nil OR [err] !=nil ) then return true
// and set [err] to [re] if [re] != nil
func Catch(re interface{}, err *error) bool {
	var ex error
	if re != nil {
		switch rex := re.(type) {
		case error:
			ex = rex
		default:
			ex = fmt.Errorf("%v", re)
		}
		// print recovered error
		if DEBUG || bool(log.V(log.LV_ERR_STACK)) {
			buf := make([]byte, 1600)
			n := runtime.Stack(buf, false)
			errStack := ex.Error() + "\n"
			errStack += string(buf[:n])
			log.DirectPrintln(errStack)
		}
	}
	if ex != nil {
		if err != nil {
			*err = ex
		}
		return true
	}
	return err != nil && *err != nil
}
