// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package auth decides whether an admin request is authenticated. A Gate
// tries an ordered list of credential resolvers and accepts the first one
// that yields an identity.
package auth

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
)

// Method names the kind of credential that authenticated a request.
type Method string

const (
	MethodBearer Method = "bearer"
	MethodCookie Method = "cookie"
)

// Identity is the authenticated operator for the duration of a request.
type Identity struct {
	UserID uuid.UUID `json:"userId"`
	Email  string    `json:"email"`
	Method Method    `json:"method"`
}

// ErrNotApplicable is returned by a resolver when the request carries no
// credential of its kind.
var ErrNotApplicable = errors.New("credential not present")

// NoSessionReason is the failure reason when no resolver found a credential.
const NoSessionReason = "No session found"

// Failure is an authentication rejection with a reason safe to show the
// client.
type Failure struct {
	Reason string
}

func (f *Failure) Error() string {
	return f.Reason
}

// Resolver extracts and checks one kind of credential.
type Resolver interface {
	Name() string
	Resolve(r *http.Request) (*Identity, error)
}

// Gate holds resolvers in the order they are tried.
type Gate struct {
	resolvers []Resolver
}

// NewGate creates a gate over the given resolvers.
func NewGate(resolvers ...Resolver) *Gate {
	return &Gate{resolvers: resolvers}
}

// Authenticate returns the identity from the first resolver that accepts
// the request. Otherwise the error is a *Failure carrying the reason of the
// last resolver that found a credential it could not accept, or
// NoSessionReason when none did.
func (g *Gate) Authenticate(r *http.Request) (*Identity, error) {
	var last *Failure
	for _, res := range g.resolvers {
		id, err := res.Resolve(r)
		if err == nil && id != nil {
			return id, nil
		}
		if err == nil || errors.Is(err, ErrNotApplicable) {
			continue
		}
		var f *Failure
		if !errors.As(err, &f) {
			f = &Failure{Reason: err.Error()}
		}
		last = f
	}
	if last != nil {
		return nil, last
	}
	return nil, &Failure{Reason: NoSessionReason}
}
