package logger

import (
	"time"
)

// StepTracker logs the progress of a fixed sequence of pipeline stages,
// producing "[2/8] Parsing transactions" style entries.
type StepTracker struct {
	logger    Logger
	total     int
	current   int
	startTime time.Time
	stepStart time.Time
	stepName  string
}

// NewStepTracker creates a tracker for a run with the given number of steps
func NewStepTracker(total int, log Logger) *StepTracker {
	if log == nil {
		log = GetGlobalLogger()
	}
	now := time.Now()
	return &StepTracker{
		logger:    log.WithComponent("pipeline"),
		total:     total,
		startTime: now,
		stepStart: now,
	}
}

// Begin marks the start of the next step and logs it
func (st *StepTracker) Begin(name string) {
	st.current++
	st.stepName = name
	st.stepStart = time.Now()

	st.logger.WithFields(Fields{
		"step":  st.current,
		"total": st.total,
	}).Infof("[%d/%d] %s", st.current, st.total, name)
}

// EndWithFields logs completion of the current step with extra detail
func (st *StepTracker) EndWithFields(fields Fields) {
	if fields == nil {
		fields = Fields{}
	}
	fields["step"] = st.current
	fields["duration"] = time.Since(st.stepStart).String()
	st.logger.WithFields(fields).Debugf("completed: %s", st.stepName)
}

// Complete logs the overall run duration
func (st *StepTracker) Complete() {
	st.logger.WithFields(Fields{
		"steps":    st.current,
		"duration": time.Since(st.startTime).String(),
	}).Info("Pipeline completed")
}

// CompleteWithError logs that the run ended early with an error
func (st *StepTracker) CompleteWithError(err error) {
	st.logger.WithError(err).WithFields(Fields{
		"failed_step": st.stepName,
		"step":        st.current,
		"duration":    time.Since(st.startTime).String(),
	}).Error("Pipeline failed")
}
