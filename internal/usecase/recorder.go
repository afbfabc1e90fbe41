package usecase

import "time"

// NopRecorder discards all measurements.
type NopRecorder struct{}

func (NopRecorder) MutationCompleted(string, time.Duration, error) {}
func (NopRecorder) BalanceAdjusted(int)                            {}
func (NopRecorder) Reconciled(int)                                 {}
func (NopRecorder) BalancesRepaired(int)                           {}
func (NopRecorder) CacheLookup(bool)                               {}
