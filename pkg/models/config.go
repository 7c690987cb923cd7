package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

// ErrUnknownNodeKind is returned when a node kind is outside the supported set.
var ErrUnknownNodeKind = errors.New("unknown node kind")

// NodeConfig is the per-kind configuration of a node. Each kind has exactly one variant.
type NodeConfig interface {
	Kind() NodeKind
}

// ConditionType is the comparison a condition node performs.
type ConditionType string

const (
	ConditionEquals      ConditionType = "equals"
	ConditionNotEquals   ConditionType = "notEquals"
	ConditionGreaterThan ConditionType = "greaterThan"
	ConditionLessThan    ConditionType = "lessThan"
	ConditionContains    ConditionType = "contains"
)

// ConditionTypes lists the supported comparisons.
var ConditionTypes = []ConditionType{
	ConditionEquals,
	ConditionNotEquals,
	ConditionGreaterThan,
	ConditionLessThan,
	ConditionContains,
}

// Valid reports whether t is a supported comparison.
func (t ConditionType) Valid() bool {
	return slices.Contains(ConditionTypes, t)
}

// StartTriggerConfig has no fields.
type StartTriggerConfig struct{}

func (StartTriggerConfig) Kind() NodeKind { return NodeKindStartTrigger }

// ConditionConfig holds a single comparison test.
type ConditionConfig struct {
	ConditionType  ConditionType `json:"condition_type"`
	ConditionValue string        `json:"condition_value"`
}

func (ConditionConfig) Kind() NodeKind { return NodeKindCondition }

// WaitTimerConfig holds a delay. At least one of the fields must be nonzero.
type WaitTimerConfig struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

func (WaitTimerConfig) Kind() NodeKind { return NodeKindWaitTimer }

// SendMessageConfig holds the target and payload of an outbound message.
type SendMessageConfig struct {
	Username string `json:"username"`
	Message  string `json:"message"`
}

func (SendMessageConfig) Kind() NodeKind { return NodeKindSendMessage }

// FollowUserConfig has no fields.
type FollowUserConfig struct{}

func (FollowUserConfig) Kind() NodeKind { return NodeKindFollowUser }

// DefaultConfig returns the empty config variant for kind, or nil for unknown kinds.
func DefaultConfig(kind NodeKind) NodeConfig {
	switch kind {
	case NodeKindStartTrigger:
		return StartTriggerConfig{}
	case NodeKindCondition:
		return ConditionConfig{}
	case NodeKindWaitTimer:
		return WaitTimerConfig{}
	case NodeKindSendMessage:
		return SendMessageConfig{}
	case NodeKindFollowUser:
		return FollowUserConfig{}
	default:
		return nil
	}
}

// DecodeConfig decodes raw JSON into the config variant of kind.
// Empty or null input yields the empty variant.
func DecodeConfig(kind NodeKind, raw json.RawMessage) (NodeConfig, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNodeKind, kind)
	}

	if len(raw) == 0 || string(raw) == "null" {
		return DefaultConfig(kind), nil
	}

	var (
		config NodeConfig
		err    error
	)

	switch kind {
	case NodeKindStartTrigger:
		var c StartTriggerConfig
		err = json.Unmarshal(raw, &c)
		config = c
	case NodeKindCondition:
		var c ConditionConfig
		err = json.Unmarshal(raw, &c)
		config = c
	case NodeKindWaitTimer:
		var c WaitTimerConfig
		err = json.Unmarshal(raw, &c)
		config = c
	case NodeKindSendMessage:
		var c SendMessageConfig
		err = json.Unmarshal(raw, &c)
		config = c
	case NodeKindFollowUser:
		var c FollowUserConfig
		err = json.Unmarshal(raw, &c)
		config = c
	}

	if err != nil {
		return nil, fmt.Errorf("invalid %s config: %w", kind, err)
	}

	return config, nil
}

// ConfigValue dereferences pointer variants so callers can switch on value types only.
// A nil pointer yields the empty variant.
func ConfigValue(config NodeConfig) NodeConfig {
	switch c := config.(type) {
	case *StartTriggerConfig:
		return StartTriggerConfig{}
	case *FollowUserConfig:
		return FollowUserConfig{}
	case *ConditionConfig:
		if c == nil {
			return ConditionConfig{}
		}

		return *c
	case *WaitTimerConfig:
		if c == nil {
			return WaitTimerConfig{}
		}

		return *c
	case *SendMessageConfig:
		if c == nil {
			return SendMessageConfig{}
		}

		return *c
	default:
		return config
	}
}
