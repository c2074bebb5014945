// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package postapi

import (
	"errors"
	"net"

	"github.com/z5labs/postboard/result"
)

type statusRule struct {
	lo, hi int
	err    result.NetworkError
}

// statusPolicy is evaluated in order and the first matching rule wins.
type statusPolicy []statusRule

func (p statusPolicy) classify(code int) result.NetworkError {
	for _, rule := range p {
		if rule.lo <= code && code <= rule.hi {
			return rule.err
		}
	}
	return result.Unknown
}

func classify(err error, policy statusPolicy) result.NetworkError {
	var sce StatusCodeError
	if errors.As(err, &sce) {
		return policy.classify(sce.Code)
	}

	var serr SerializationError
	if errors.As(err, &serr) {
		return result.Serialization
	}

	if unreachable(err) {
		return result.NoInternet
	}
	return result.Unknown
}

// unreachable reports whether err means the remote host could
// not be resolved or connected to.
func unreachable(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var addrErr *net.AddrError
	if errors.As(err, &addrErr) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return opErr.Op == "dial"
	}
	return false
}
