package airlockmc

import (
	"airlockmc/config"

	"go.uber.org/zap"
)

// A option used to configure a verification run
type VerifyOption interface {
	// noop method
	VerifyOpt()
}

// Configure the maximum number of configurations discovered.
//
// Default value is 1048576. 0 means no limit.
//
// Properties that are not violated in the discovered part of the state space are inconclusive if the limit is reached.
func MaxStates(maxStates int) VerifyOption {
	return config.MaxStatesOption{MaxStates: maxStates}
}

// Configure the maximum depth explored.
//
// Default value is 0, no limit.
//
// Note that liveness properties can not be verified if the state space is not fully explored.
func MaxDepth(maxDepth int) VerifyOption {
	return config.MaxDepthOption{MaxDepth: maxDepth}
}

// Configure the number of configurations that are expanded concurrently.
//
// Default value is GOMAXPROCS
func NumConcurrent(n int) VerifyOption {
	return config.NumConcurrentOption{N: n}
}

// Configure the logger used to report the progress of the exploration.
//
// Default is a no-op logger.
func WithLogger(log *zap.Logger) VerifyOption {
	return config.LoggerOption{Log: log}
}
