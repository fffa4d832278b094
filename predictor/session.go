package predictor

import (
	"context"

	"heartrisk/patient"
)

type State string

const (
	AwaitingInput State = "awaiting_input"
	ResultShown   State = "result_shown"
)

// Session is one user's pass through the form. Each session owns its
// record; only the Predictor behind it is shared.
type Session struct {
	predictor *Predictor
	record    patient.Record
	state     State
	verdict   *Verdict
	err       error
}

func NewSession(p *Predictor) *Session {
	return &Session{
		predictor: p,
		record:    patient.Defaults(),
		state:     AwaitingInput,
	}
}

func (s *Session) State() State { return s.state }

func (s *Session) Record() patient.Record { return s.record }

func (s *Session) Err() error { return s.err }

// Verdict returns the shown result, if any.
func (s *Session) Verdict() (Verdict, bool) {
	if s.verdict == nil {
		return Verdict{}, false
	}
	return *s.verdict, true
}

// Update replaces the record. Any shown result is cleared.
func (s *Session) Update(r patient.Record) {
	s.record = r
	s.state = AwaitingInput
	s.verdict = nil
	s.err = nil
}

// Submit runs a prediction for the current record. On failure the session
// stays in AwaitingInput with the error kept for display.
func (s *Session) Submit(ctx context.Context) (Verdict, error) {
	verdict, err := s.predictor.Predict(ctx, s.record)
	if err != nil {
		s.state = AwaitingInput
		s.verdict = nil
		s.err = err
		return Verdict{}, err
	}
	s.state = ResultShown
	s.verdict = &verdict
	s.err = nil
	return verdict, nil
}
