/*
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package api

import (
	"context"
	"net/http"
	"sync"
)

// TokenCookieName is the cookie that carries the session token on mutating requests.
const TokenCookieName = "token"

//go:generate mockgen -source=auth.go -destination=mock/interfaces.go -package=mock

// TokenSource provides the token attached to authenticated requests.
type TokenSource interface {
	Token(ctx context.Context) (AuthToken, error)
}

// Authenticator exchanges credentials for a token.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (AuthToken, error)
}

// StaticToken is a TokenSource that always returns the same value, an empty
// value means requests are sent without a token cookie.
type StaticToken AuthToken

func (t StaticToken) Token(_ context.Context) (AuthToken, error) {
	return AuthToken(t), nil
}

// Session caches a token for the lifetime of a test run. Concurrent callers
// share a single credential exchange.
type Session struct {
	authenticator Authenticator
	username      string
	password      string

	lock  sync.Mutex
	token AuthToken
}

// NewSession creates a session, no request is made until the first Token call.
func NewSession(authenticator Authenticator, username, password string) *Session {
	return &Session{
		authenticator: authenticator,
		username:      username,
		password:      password,
	}
}

// Token returns the cached token, authenticating first if there is none.
func (s *Session) Token(ctx context.Context) (AuthToken, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.token != "" {
		return s.token, nil
	}

	token, err := s.authenticator.Authenticate(ctx, s.username, s.password)
	if err != nil {
		return "", err
	}

	s.token = token

	return token, nil
}

// Invalidate drops the cached token so the next Token call re-authenticates.
func (s *Session) Invalidate() {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.token = ""
}

// Cookie returns the session token as a request cookie.
func (s *Session) Cookie(ctx context.Context) (*http.Cookie, error) {
	token, err := s.Token(ctx)
	if err != nil {
		return nil, err
	}

	return &http.Cookie{
		Name:  TokenCookieName,
		Value: string(token),
	}, nil
}
