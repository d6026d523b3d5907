package httpauth

import (
	"bytes"
	"io"
	"net/http"
)

// onCreate implements §4.9's create hook: it consults the session's
// context filter against the request method and, if the request is in
// scope, attaches a fresh authRequest and resets the attempt counter.
// CONNECT requests over HTTPS are the only ones a proxy Session
// handles; everything else over HTTPS belongs to the server Session.
func (s *Session) onCreate(req *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.filter.allows(req.Method) {
		return
	}

	s.attempt = 0
	s.requests[req] = &authRequest{
		method: req.Method,
		uri:    req.URL.RequestURI(),
	}
}

// onPreSend implements §4.9's pre-send hook: if a scheme is installed
// and this request has an attached authRequest, it marks will_handle,
// computes the scheme-specific header, and installs it.
func (s *Session) onPreSend(req *http.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ar, ok := s.requests[req]
	if !ok || !s.canHandle() {
		return nil
	}

	ar.willHandle = true

	value, err := s.scheme.buildHeader(s, req, ar)
	if err != nil {
		return err
	}
	req.Header.Set(s.class.authHeader, value)
	return nil
}

// postSendAction tells the Transport what to do after post_send runs.
type postSendAction int

const (
	actionOK postSendAction = iota
	actionRetry
	actionFail
)

// onPostSend implements §4.9's post-send hook. If an
// Authentication-Info was captured, it is verified first; a mismatch
// is fatal for this request but does not clear the session's
// credentials. Otherwise, if the response carries the class's gated
// status code and a challenge header, the challenge is parsed and a
// scheme re-selected; acceptance signals a retry, rejection clears the
// session and surfaces the class's failure.
func (s *Session) onPostSend(req *http.Request, resp *http.Response) (postSendAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ar, ok := s.requests[req]
	if !ok {
		return actionOK, nil
	}

	if ar.willHandle {
		if info := resp.Header.Get(s.class.infoHeader); info != "" {
			if err := s.scheme.verifyInfo(s, ar, info); err != nil {
				return actionFail, err
			}
			return actionOK, nil
		}
	}

	if resp.StatusCode == s.class.statusCode {
		var all []*challenge
		for _, v := range resp.Header.Values(s.class.challengeHdr) {
			parsed, err := parseChallenges(v)
			if err != nil && len(parsed) == 0 {
				continue
			}
			all = append(all, parsed...)
		}

		if len(all) == 0 {
			s.scheme = nil
			return actionFail, newClassError(s.class, nil)
		}

		err := s.acceptChallenges(all)
		s.attempt++
		if err != nil {
			return actionFail, err
		}
		return actionRetry, nil
	}

	return actionOK, nil
}

// onDestroy implements §4.9's destroy hook: the authRequest is
// dropped from the session's registry.
func (s *Session) onDestroy(req *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.requests, req)
}

// bufferAuthIntBody fully reads resp.Body into memory and, if the
// installed scheme is Digest with qop=auth-int, feeds it into the
// attached authRequest's running digest so onPostSend's verifyInfo can
// check rspauth against the complete entity body. resp.Body is
// replaced with a fresh reader over the buffered bytes so callers can
// still consume it normally. Authentication-Info, like all HTTP
// headers, is available before the body is read, which is why this
// buffering happens eagerly rather than streamed incrementally.
func (s *Session) bufferAuthIntBody(req *http.Request, resp *http.Response) error {
	s.mu.Lock()
	ar, ok := s.requests[req]
	wantDigest := ok && ar.willHandle
	if wantDigest {
		if d, isDigest := s.scheme.(*digestState); !isDigest || d.qop != QopAuthInt {
			wantDigest = false
		}
	}
	s.mu.Unlock()

	if !wantDigest || resp.Body == nil {
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(body))

	s.mu.Lock()
	ar.respBody = newMD5()
	ar.respBody.update(string(body))
	s.mu.Unlock()

	return nil
}
