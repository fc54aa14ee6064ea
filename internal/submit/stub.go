package submit

import "context"

// StubSubmitter accepts every request without a network call. It backs demo
// mode (no endpoint configured) and tests.
type StubSubmitter struct {
	// Requests records every submitted request in order.
	Requests []Request
	// Result is returned for every submission.
	Result Result
}

var _ Submitter = (*StubSubmitter)(nil)

func (s *StubSubmitter) Submit(_ context.Context, req Request) Result {
	s.Requests = append(s.Requests, req)
	return s.Result
}
