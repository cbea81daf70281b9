// Package access decides who may read or write credit data.
//
// The policy is a table of grants per operation. A grant names a role (or any
// role) and an optional ownership predicate over the target; an operation is
// allowed when at least one of its grants matches.
package access

import (
	"errors"

	"creditbureau-backend/internal/domain/user"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrForbidden        = errors.New("forbidden")
)

// Principal is the authenticated caller. A nil *Principal means unauthenticated.
type Principal struct {
	ID   string
	Role user.Role
}

type Operation string

const (
	OpCreateRecord        Operation = "credit.create"
	OpReadConsumerRecords Operation = "credit.read_consumer"
	OpReadLenderRecords   Operation = "credit.read_lender"
	OpUpdateStatus        Operation = "credit.update_status"
	OpReadScore           Operation = "credit.read_score"
	OpListUsers           Operation = "users.list"
	OpUserStats           Operation = "users.stats"
	OpPendingLenders      Operation = "users.pending"
	OpApproveLender       Operation = "users.approve"
	OpDeleteUser          Operation = "users.delete"
	OpSearchUser          Operation = "users.search"
)

// Target carries whatever the ownership predicates need to look at.
type Target struct {
	ConsumerID   string
	RecordLender string
}

type Decision int

const (
	Allow Decision = iota
	DenyNotAuthenticated
	DenyForbidden
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case DenyNotAuthenticated:
		return "not_authenticated"
	default:
		return "forbidden"
	}
}

// Err maps a decision onto the error callers propagate.
func (d Decision) Err() error {
	switch d {
	case Allow:
		return nil
	case DenyNotAuthenticated:
		return ErrNotAuthenticated
	default:
		return ErrForbidden
	}
}

type predicate func(p Principal, t Target) bool

func isSelf(p Principal, t Target) bool { return t.ConsumerID != "" && p.ID == t.ConsumerID }

func ownsRecord(p Principal, t Target) bool { return t.RecordLender != "" && p.ID == t.RecordLender }

// anyRole matches every role; the grant then relies on its predicate.
const anyRole user.Role = ""

type grant struct {
	role user.Role
	when predicate
}

func (g grant) roleMatches(r user.Role) bool { return g.role == anyRole || g.role == r }

func (g grant) matches(p Principal, t Target) bool {
	return g.roleMatches(p.Role) && (g.when == nil || g.when(p, t))
}

var adminOnly = []grant{{role: user.RoleAdmin}}

// Any lender may read any consumer; there is no lending-relationship check.
var consumerRead = []grant{
	{role: user.RoleAdmin},
	{role: user.RoleLender},
	{role: anyRole, when: isSelf},
}

var table = map[Operation][]grant{
	OpCreateRecord:        {{role: user.RoleLender}},
	OpReadConsumerRecords: consumerRead,
	OpReadLenderRecords:   {{role: user.RoleLender}},
	OpUpdateStatus:        {{role: user.RoleLender, when: ownsRecord}},
	OpReadScore:           consumerRead,
	OpListUsers:           adminOnly,
	OpUserStats:           adminOnly,
	OpPendingLenders:      adminOnly,
	OpApproveLender:       adminOnly,
	OpDeleteUser:          adminOnly,
	OpSearchUser:          {{role: user.RoleAdmin}, {role: user.RoleLender}},
}

// Decide evaluates op for p against t. Authentication is checked before any role.
func Decide(p *Principal, op Operation, t Target) Decision {
	if p == nil || p.ID == "" {
		return DenyNotAuthenticated
	}
	for _, g := range table[op] {
		if g.matches(*p, t) {
			return Allow
		}
	}
	return DenyForbidden
}

func Authorize(p *Principal, op Operation, t Target) error { return Decide(p, op, t).Err() }

// Permits is the role gate applied before the target is loaded: it ignores
// ownership predicates, so a lender passes it for OpUpdateStatus on any record.
// Predicate-only grants do not pass it.
func Permits(p *Principal, op Operation) error {
	if p == nil || p.ID == "" {
		return ErrNotAuthenticated
	}
	for _, g := range table[op] {
		if g.role != anyRole && g.role == p.Role {
			return nil
		}
	}
	return ErrForbidden
}
