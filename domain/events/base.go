package events

import "time"

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// Interview events

const EventTypeInterviewRecorded = "interview.recorded"

// InterviewRecorded is raised when a new interview record has been created
type InterviewRecorded struct {
	BaseEvent
	InterviewID   string `json:"interview_id"`
	Company       string `json:"company"`
	Role          string `json:"role"`
	Position      string `json:"position"`
	Year          string `json:"year"`
	QuestionCount int    `json:"question_count"`
}

// NewInterviewRecorded creates an InterviewRecorded event
func NewInterviewRecorded(interviewID, company, role, position, year string, questionCount int, timestamp time.Time) InterviewRecorded {
	return InterviewRecorded{
		BaseEvent: BaseEvent{
			AggregateID: interviewID,
			EventType:   EventTypeInterviewRecorded,
			Timestamp:   timestamp,
			Version:     1,
		},
		InterviewID:   interviewID,
		Company:       company,
		Role:          role,
		Position:      position,
		Year:          year,
		QuestionCount: questionCount,
	}
}

// SourceInterviewBank identifies events emitted by this service
const SourceInterviewBank = "interviewbank"
