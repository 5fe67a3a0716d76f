package mocks

import st "github.com/aerodata/go-aerodata/subsystems/adstoretypes"

type requester struct {
	RequestAllRespCh chan RequestAllResponse
	PollsCh          chan struct{}
	CloserCh         chan struct{}
}

type RequestAllResponse struct {
	Data   []st.Collection
	Cached bool
	Err    error
}

func NewPollingRequester() *requester {
	return &requester{
		RequestAllRespCh: make(chan RequestAllResponse, 100),
		PollsCh:          make(chan struct{}, 100),
		CloserCh:         make(chan struct{}),
	}
}

func (r *requester) Close() {
	close(r.CloserCh)
}

func (r *requester) AirportsURI() string {
	return ""
}

func (r *requester) RunwaysURI() string {
	return ""
}

func (r *requester) CacheDir() string {
	return ""
}

func (r *requester) Request() ([]st.Collection, bool, error) {
	select {
	case resp := <-r.RequestAllRespCh:
		r.PollsCh <- struct{}{}
		return resp.Data, resp.Cached, resp.Err
	case <-r.CloserCh:
		return nil, false, nil
	}
}
