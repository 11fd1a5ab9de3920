package domain

import "strings"

// ChannelType is the kind of conversation container.
type ChannelType string

const (
	ChannelTypePublic         ChannelType = "public"
	ChannelTypePrivate        ChannelType = "private"
	ChannelTypeProject        ChannelType = "project"
	ChannelTypeShift          ChannelType = "shift"
	ChannelTypeHRConfidential ChannelType = "hr_confidential"
	ChannelTypeDirect         ChannelType = "direct"
	ChannelTypeDM             ChannelType = "dm"
	ChannelTypeGroup          ChannelType = "group"
)

func (t ChannelType) String() string { return string(t) }

func (t ChannelType) IsValid() bool {
	switch t {
	case ChannelTypePublic, ChannelTypePrivate, ChannelTypeProject, ChannelTypeShift,
		ChannelTypeHRConfidential, ChannelTypeDirect, ChannelTypeDM, ChannelTypeGroup:
		return true
	}
	return false
}

// IsDirect reports whether the channel is a one-to-one conversation.
func (t ChannelType) IsDirect() bool {
	return t == ChannelTypeDirect || t == ChannelTypeDM
}

// IsOpen reports whether any authenticated user may read the channel
// without being a member.
func (t ChannelType) IsOpen() bool {
	switch t {
	case ChannelTypePublic, ChannelTypeProject, ChannelTypeShift:
		return true
	}
	return false
}

// ParseChannelType decodes a raw channel type. Unknown values are rejected.
func ParseChannelType(raw string) (ChannelType, error) {
	t := ChannelType(strings.ToLower(strings.TrimSpace(raw)))
	if !t.IsValid() {
		return "", NewValidationError("type", "unknown channel type "+quote(raw))
	}
	return t, nil
}

// MessageType identifies the payload of a message.
type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeVoice MessageType = "voice"
	MessageTypeCard  MessageType = "card"
)

func (t MessageType) String() string { return string(t) }

func (t MessageType) IsValid() bool {
	switch t {
	case MessageTypeText, MessageTypeVoice, MessageTypeCard:
		return true
	}
	return false
}

// ParseMessageType decodes a raw message type. Empty input means text.
func ParseMessageType(raw string) (MessageType, error) {
	if strings.TrimSpace(raw) == "" {
		return MessageTypeText, nil
	}
	t := MessageType(strings.ToLower(strings.TrimSpace(raw)))
	if !t.IsValid() {
		return "", NewValidationError("type", "unknown message type "+quote(raw))
	}
	return t, nil
}

// MemberRole is the role of a user inside a channel.
type MemberRole string

const (
	MemberRoleOwner  MemberRole = "owner"
	MemberRoleAdmin  MemberRole = "admin"
	MemberRoleMember MemberRole = "member"
)

func (r MemberRole) String() string { return string(r) }

func (r MemberRole) IsValid() bool {
	switch r {
	case MemberRoleOwner, MemberRoleAdmin, MemberRoleMember:
		return true
	}
	return false
}

// CanManageMembers reports whether the role may add or remove members.
func (r MemberRole) CanManageMembers() bool {
	return r == MemberRoleOwner || r == MemberRoleAdmin
}

// CanEditChannel reports whether the role may change channel settings.
func (r MemberRole) CanEditChannel() bool {
	return r == MemberRoleOwner || r == MemberRoleAdmin
}

// ParseMemberRole decodes a raw member role.
func ParseMemberRole(raw string) (MemberRole, error) {
	r := MemberRole(strings.ToLower(strings.TrimSpace(raw)))
	if !r.IsValid() {
		return "", NewValidationError("role", "unknown role "+quote(raw))
	}
	return r, nil
}

// EventKind identifies a realtime change event.
type EventKind string

const (
	EventMessageCreated  EventKind = "message.created"
	EventMessageUpdated  EventKind = "message.updated"
	EventMessageDeleted  EventKind = "message.deleted"
	EventReactionChanged EventKind = "reaction.changed"
	EventTyping          EventKind = "typing"
	EventReceiptCreated  EventKind = "receipt.created"
	EventChannelUpdated  EventKind = "channel.updated"
	EventChannelDeleted  EventKind = "channel.deleted"
	EventMemberChanged   EventKind = "member.changed"
)

func (k EventKind) String() string { return string(k) }

func (k EventKind) IsValid() bool {
	switch k {
	case EventMessageCreated, EventMessageUpdated, EventMessageDeleted, EventReactionChanged,
		EventTyping, EventReceiptCreated, EventChannelUpdated, EventChannelDeleted, EventMemberChanged:
		return true
	}
	return false
}

// ParseEventKind decodes a raw event kind.
func ParseEventKind(raw string) (EventKind, error) {
	k := EventKind(strings.TrimSpace(raw))
	if !k.IsValid() {
		return "", NewValidationError("kind", "unknown event kind "+quote(raw))
	}
	return k, nil
}

// ForecastMethod is the projection method of a forecast template.
type ForecastMethod string

const (
	ForecastMethodLinear   ForecastMethod = "linear"
	ForecastMethodSeasonal ForecastMethod = "seasonal"
	ForecastMethodManual   ForecastMethod = "manual"
)

func (m ForecastMethod) String() string { return string(m) }

func (m ForecastMethod) IsValid() bool {
	switch m {
	case ForecastMethodLinear, ForecastMethodSeasonal, ForecastMethodManual:
		return true
	}
	return false
}

// SettingsGroup names a set of key/value settings rows.
type SettingsGroup string

const (
	SettingsGroupBusinessTravel SettingsGroup = "business_travel"
	SettingsGroupBudgetDefaults SettingsGroup = "budget_defaults"
)

func (g SettingsGroup) String() string { return string(g) }

func (g SettingsGroup) IsValid() bool {
	switch g {
	case SettingsGroupBusinessTravel, SettingsGroupBudgetDefaults:
		return true
	}
	return false
}

// ParseSettingsGroup decodes a raw settings group name.
func ParseSettingsGroup(raw string) (SettingsGroup, error) {
	g := SettingsGroup(strings.ToLower(strings.TrimSpace(raw)))
	if !g.IsValid() {
		return "", NewValidationError("group", "unknown settings group "+quote(raw))
	}
	return g, nil
}

// EntityType identifies the kind of domain entity (used in audit logs).
type EntityType string

const (
	EntityTypeChannel          EntityType = "CHANNEL"
	EntityTypeMember           EntityType = "MEMBER"
	EntityTypeMessage          EntityType = "MESSAGE"
	EntityTypeBudget           EntityType = "BUDGET"
	EntityTypeForecastTemplate EntityType = "FORECAST_TEMPLATE"
	EntityTypeSettings         EntityType = "SETTINGS"
	EntityTypeUser             EntityType = "USER"
)

func (e EntityType) String() string { return string(e) }

func (e EntityType) IsValid() bool {
	switch e {
	case EntityTypeChannel, EntityTypeMember, EntityTypeMessage, EntityTypeBudget,
		EntityTypeForecastTemplate, EntityTypeSettings, EntityTypeUser:
		return true
	}
	return false
}

// AuditAction represents the kind of mutation recorded in the audit log.
type AuditAction string

const (
	AuditActionCreate AuditAction = "CREATE"
	AuditActionUpdate AuditAction = "UPDATE"
	AuditActionDelete AuditAction = "DELETE"
)

func (a AuditAction) String() string { return string(a) }

func (a AuditAction) IsValid() bool {
	switch a {
	case AuditActionCreate, AuditActionUpdate, AuditActionDelete:
		return true
	}
	return false
}

func quote(s string) string {
	return "\"" + s + "\""
}
