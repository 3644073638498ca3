// Package triage routes an authenticated session between the self-service flows.
package triage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Dan9191/credit-service/internal/models"
	"github.com/Dan9191/credit-service/internal/utils"
	"github.com/sirupsen/logrus"
)

// State is a router position
type State int

const (
	Home State = iota
	LimitFlow
	InterviewFlow
	ExchangeFlow
	Terminated
)

func (s State) String() string {
	switch s {
	case Home:
		return "home"
	case LimitFlow:
		return "limit"
	case InterviewFlow:
		return "interview"
	case ExchangeFlow:
		return "exchange"
	case Terminated:
		return "terminated"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Choice is a menu selection made at Home
type Choice int

const (
	ChooseLimit Choice = iota + 1
	ChooseInterview
	ChooseExchange
	ChooseExit
)

func (c Choice) String() string {
	switch c {
	case ChooseLimit:
		return "limit"
	case ChooseInterview:
		return "interview"
	case ChooseExchange:
		return "exchange"
	case ChooseExit:
		return "exit"
	}
	return fmt.Sprintf("Choice(%d)", int(c))
}

var transitions = map[State]map[Choice]State{
	Home: {
		ChooseLimit:     LimitFlow,
		ChooseInterview: InterviewFlow,
		ChooseExchange:  ExchangeFlow,
		ChooseExit:      Terminated,
	},
}

// ErrEndSession may be returned by a flow to terminate the session instead of going back Home
var ErrEndSession = errors.New("session ended")

// Next returns the state reached from `from` with choice c. Flows always lead back
// Home and Terminated never changes.
func Next(from State, c Choice) (State, error) {
	switch from {
	case Terminated:
		return Terminated, nil
	case LimitFlow, InterviewFlow, ExchangeFlow:
		return Home, nil
	}
	to, ok := transitions[from][c]
	if !ok {
		return from, fmt.Errorf("%w: no transition from %s on %s", models.ErrValidation, from, c)
	}
	return to, nil
}

// ParseChoice maps the home menu input to a Choice
func ParseChoice(input string) (Choice, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "1":
		return ChooseLimit, nil
	case "2":
		return ChooseInterview, nil
	case "3":
		return ChooseExchange, nil
	case "0", "sair":
		return ChooseExit, nil
	}
	return 0, fmt.Errorf("%w: invalid menu option %q", models.ErrValidation, input)
}

// Flow is one self-service conversation entered from Home
type Flow interface {
	Run(ctx context.Context, sess *models.Session) error
}

// FlowFunc adapts a function to Flow
type FlowFunc func(ctx context.Context, sess *models.Session) error

func (f FlowFunc) Run(ctx context.Context, sess *models.Session) error { return f(ctx, sess) }

// Chooser asks the user where to go from Home
type Chooser interface {
	Choose(ctx context.Context) (Choice, error)
}

// ChooserFunc adapts a function to Chooser
type ChooserFunc func(ctx context.Context) (Choice, error)

func (f ChooserFunc) Choose(ctx context.Context) (Choice, error) { return f(ctx) }

// Router dispatches one authenticated session. It is not safe for concurrent use.
type Router struct {
	session *models.Session
	flows   map[State]Flow
	chooser Chooser
	log     *logrus.Logger
	state   State
}

// New builds a router for sess. Every flow state needs a Flow and the session must
// come from a successful authentication.
func New(sess *models.Session, flows map[State]Flow, chooser Chooser, log *logrus.Logger) (*Router, error) {
	if !sess.Valid() {
		return nil, fmt.Errorf("%w: triage requires an authenticated session", models.ErrInvalidCredentials)
	}
	if chooser == nil {
		return nil, errors.New("triage: chooser is required")
	}
	for _, st := range []State{LimitFlow, InterviewFlow, ExchangeFlow} {
		if flows[st] == nil {
			return nil, fmt.Errorf("triage: no flow registered for %s", st)
		}
	}
	return &Router{session: sess, flows: flows, chooser: chooser, log: log, state: Home}, nil
}

// State returns the current router state
func (r *Router) State() State { return r.state }

// Run drives the session until the user exits, input ends or ctx is cancelled.
// Flow failures are logged and the router returns Home.
func (r *Router) Run(ctx context.Context) error {
	fields := logrus.Fields{"cpf": utils.MaskCPF(r.session.CPF), "session": r.session.ID}

	for r.state != Terminated {
		if err := ctx.Err(); err != nil {
			r.state = Terminated
			return err
		}

		choice, err := r.chooser.Choose(ctx)
		switch {
		case err == nil:
		case errors.Is(err, models.ErrValidation):
			r.log.WithFields(fields).Debugf("Invalid menu input: %v", err)
			continue
		case errors.Is(err, io.EOF), errors.Is(err, ErrEndSession):
			r.state = Terminated
			return nil
		default:
			r.state = Terminated
			return fmt.Errorf("failed to read menu choice: %w", err)
		}

		next, err := Next(r.state, choice)
		if err != nil {
			r.log.WithFields(fields).Debugf("Ignoring choice: %v", err)
			continue
		}
		r.state = next
		if r.state == Terminated {
			break
		}

		r.log.WithFields(fields).Debugf("Entering %s flow", r.state)
		err = r.flows[r.state].Run(ctx, r.session)
		if errors.Is(err, io.EOF) || errors.Is(err, ErrEndSession) {
			r.state = Terminated
			break
		}
		if err != nil {
			r.log.WithFields(fields).Errorf("%s flow failed: %v", r.state, err)
		}
		r.state, _ = Next(r.state, choice)
	}

	r.log.WithFields(fields).Info("Session terminated")
	return nil
}
