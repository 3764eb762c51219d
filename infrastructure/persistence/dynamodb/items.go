package dynamodb

import (
	"fmt"
	"time"

	"interviewbank/domain/core/entities"
	"interviewbank/domain/core/valueobjects"
)

const (
	entityTypeInterview = "INTERVIEW"
	metadataSK          = "METADATA"

	// Fixed-width so GSI1SK sorts lexicographically by creation time
	sortableTime = "2006-01-02T15:04:05.000000000Z07:00"
)

// interviewItem represents the DynamoDB item structure for an interview.
// GSI1PK holds the encoded match key; GSI1SK orders matches by creation time.
type interviewItem struct {
	PK          string         `dynamodbav:"PK"`
	SK          string         `dynamodbav:"SK"`
	GSI1PK      string         `dynamodbav:"GSI1PK"`
	GSI1SK      string         `dynamodbav:"GSI1SK"`
	EntityType  string         `dynamodbav:"EntityType"`
	InterviewID string         `dynamodbav:"InterviewID"`
	Company     string         `dynamodbav:"Company"`
	Role        string         `dynamodbav:"Role"`
	Position    string         `dynamodbav:"Position"`
	Experience  string         `dynamodbav:"Experience"`
	Year        string         `dynamodbav:"Year"`
	Questions   []questionItem `dynamodbav:"Questions"`
	CreatedAt   string         `dynamodbav:"CreatedAt"`
}

type questionItem struct {
	Text       string `dynamodbav:"Text"`
	Topic      string `dynamodbav:"Topic"`
	RoundType  string `dynamodbav:"RoundType"`
	Difficulty string `dynamodbav:"Difficulty"`
	Frequency  int    `dynamodbav:"Frequency"`
	Recency    string `dynamodbav:"Recency"`
}

func interviewPK(id string) string {
	return "INTERVIEW#" + id
}

func matchPK(key valueobjects.MatchKey) string {
	return "MATCH#" + key.String()
}

func toItem(interview *entities.Interview) interviewItem {
	qs := interview.Questions()
	questions := make([]questionItem, len(qs))
	for i, q := range qs {
		questions[i] = questionItem{
			Text:       q.Text(),
			Topic:      string(q.Topic()),
			RoundType:  string(q.RoundType()),
			Difficulty: string(q.Difficulty()),
			Frequency:  q.Frequency(),
			Recency:    q.Recency().UTC().Format(time.RFC3339Nano),
		}
	}

	createdAt := interview.CreatedAt().UTC()
	return interviewItem{
		PK:          interviewPK(interview.ID()),
		SK:          metadataSK,
		GSI1PK:      matchPK(interview.MatchKey()),
		GSI1SK:      createdAt.Format(sortableTime) + "#" + interview.ID(),
		EntityType:  entityTypeInterview,
		InterviewID: interview.ID(),
		Company:     interview.Company(),
		Role:        interview.Role(),
		Position:    string(interview.Position()),
		Experience:  interview.Experience(),
		Year:        interview.Year(),
		Questions:   questions,
		CreatedAt:   createdAt.Format(time.RFC3339Nano),
	}
}

func (item interviewItem) toEntity() (*entities.Interview, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, item.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid CreatedAt %q: %w", item.CreatedAt, err)
	}

	questions := make([]entities.Question, len(item.Questions))
	for i, q := range item.Questions {
		recency, err := time.Parse(time.RFC3339Nano, q.Recency)
		if err != nil {
			return nil, fmt.Errorf("invalid Recency %q on question %d: %w", q.Recency, i, err)
		}
		questions[i] = entities.ReconstructQuestion(
			q.Text,
			valueobjects.Topic(q.Topic),
			valueobjects.RoundType(q.RoundType),
			valueobjects.Difficulty(q.Difficulty),
			q.Frequency,
			recency,
		)
	}

	return entities.ReconstructInterview(
		item.InterviewID,
		item.Company,
		item.Role,
		valueobjects.Position(item.Position),
		item.Experience,
		item.Year,
		questions,
		createdAt,
	), nil
}
