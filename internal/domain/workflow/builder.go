package workflow

import (
	"context"
	"fmt"

	"github.com/garyjia/lic-claimdesk/internal/domain/entity"
)

// GuardFunc decides from the claim's form fields whether a transition may happen
type GuardFunc func(ctx context.Context, fields entity.WorkflowState) bool

// StateMachineBuilder builds a configured section machine
type StateMachineBuilder interface {
	// Configure returns a configuration for the given section
	Configure(section Section) SectionConfiguration

	// Build creates a new machine starting at the given section
	Build(initial Section) StateMachine
}

// SectionConfiguration configures transitions out of one section
type SectionConfiguration interface {
	// PermitIf allows a trigger to move to the target section when the guard
	// passes. A nil guard always passes.
	PermitIf(trigger Trigger, to Section, guard GuardFunc) SectionConfiguration
}

type transition struct {
	to    Section
	guard GuardFunc
}

type sectionConfig struct {
	from        Section
	transitions map[Trigger][]transition
}

type stateMachineBuilder struct {
	configurations map[Section]*sectionConfig
}

type stateMachine struct {
	current        Section
	configurations map[Section]*sectionConfig
}

// NewBuilder creates a new machine builder
func NewBuilder() StateMachineBuilder {
	return &stateMachineBuilder{
		configurations: make(map[Section]*sectionConfig),
	}
}

// Configure returns the configuration for a section, creating it on first use
func (b *stateMachineBuilder) Configure(section Section) SectionConfiguration {
	if !section.IsValid() {
		panic(fmt.Sprintf("invalid section: %s", section))
	}

	config, exists := b.configurations[section]
	if !exists {
		config = &sectionConfig{
			from:        section,
			transitions: make(map[Trigger][]transition),
		}
		b.configurations[section] = config
	}

	return config
}

// Build creates an independent machine; later Configure calls do not affect it
func (b *stateMachineBuilder) Build(initial Section) StateMachine {
	if !initial.IsValid() {
		panic(fmt.Sprintf("invalid initial section: %s", initial))
	}

	configsCopy := make(map[Section]*sectionConfig, len(b.configurations))
	for section, config := range b.configurations {
		transitionsCopy := make(map[Trigger][]transition, len(config.transitions))
		for trigger, ts := range config.transitions {
			transitionsCopy[trigger] = append([]transition{}, ts...)
		}
		configsCopy[section] = &sectionConfig{
			from:        section,
			transitions: transitionsCopy,
		}
	}

	return &stateMachine{
		current:        initial,
		configurations: configsCopy,
	}
}

// PermitIf allows a trigger to move to the target section if the guard passes
func (c *sectionConfig) PermitIf(trigger Trigger, to Section, guard GuardFunc) SectionConfiguration {
	if !to.IsValid() {
		panic(fmt.Sprintf("invalid target section: %s", to))
	}

	c.transitions[trigger] = append(c.transitions[trigger], transition{
		to:    to,
		guard: guard,
	})

	return c
}

// Section returns the current section
func (m *stateMachine) Section() Section {
	return m.current
}

// Fire tries the configured transitions in order and takes the first whose guard passes
func (m *stateMachine) Fire(ctx context.Context, trigger Trigger, fields entity.WorkflowState) error {
	config, exists := m.configurations[m.current]
	if !exists {
		return fmt.Errorf("%w: cannot fire %s from %s (no configuration)", ErrInvalidTransition, trigger, m.current)
	}

	transitions := config.transitions[trigger]
	if len(transitions) == 0 {
		return fmt.Errorf("%w: cannot fire %s from %s", ErrInvalidTransition, trigger, m.current)
	}

	for _, t := range transitions {
		if t.guard == nil || t.guard(ctx, fields) {
			m.current = t.to
			return nil
		}
	}

	return fmt.Errorf("%w: %s", ErrGuardFailed, m.current.Title())
}
