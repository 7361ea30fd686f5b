package config

import "go.uber.org/zap"

// Options used to configure a verification run.
// Each type implements the VerifyOpt marker method and is applied with a type switch.

type MaxStatesOption struct{ MaxStates int }

func (mso MaxStatesOption) VerifyOpt() {}

type MaxDepthOption struct{ MaxDepth int }

func (mdo MaxDepthOption) VerifyOpt() {}

type NumConcurrentOption struct{ N int }

func (nco NumConcurrentOption) VerifyOpt() {}

type LoggerOption struct{ Log *zap.Logger }

func (lo LoggerOption) VerifyOpt() {}
