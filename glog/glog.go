// Package glog binds github.com/golang/glog to the verbosity levels used
// across dhlab and exposes the handful of entry points the other packages call.
package glog

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/golang/glog"
)

type Verbose = glog.Verbose

// SetLogOutput writes logs into dir, or to stderr when dir is empty.
// glog reads its flags from flag.CommandLine which the cli never parses.
func SetLogOutput(dir string) {
	if !flag.Parsed() {
		flag.CommandLine.Parse(nil)
	}
	if dir == "" {
		flag.Set("logtostderr", "true")
	} else {
		flag.Set("logtostderr", "false")
		flag.Set("log_dir", dir)
	}
}

func SetLogVerbose(v int) {
	if v < 0 {
		v = 0
	}
	flag.Set("v", strconv.Itoa(v))
}

func V(level int) Verbose {
	return glog.V(glog.Level(level))
}

func Infoln(args ...interface{}) {
	glog.InfoDepth(1, fmt.Sprintln(args...))
}

func Infof(format string, args ...interface{}) {
	glog.InfoDepth(1, fmt.Sprintf(format, args...))
}

func Errorln(args ...interface{}) {
	glog.ErrorDepth(1, fmt.Sprintln(args...))
}

func Flush() {
	glog.Flush()
}

// print to stderr directly, bypassing the log files
func DirectPrintln(args ...interface{}) {
	fmt.Fprintln(os.Stderr, args...)
}
