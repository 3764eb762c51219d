package mongodb

import (
	"time"

	"interviewbank/domain/core/entities"
	"interviewbank/domain/core/valueobjects"
)

// interviewDocument is the stored form of an interview. Match holds the
// normalized identity and is what lookups filter on.
type interviewDocument struct {
	ID         string             `bson:"_id"`
	Company    string             `bson:"company"`
	Role       string             `bson:"role"`
	Position   string             `bson:"position"`
	Experience string             `bson:"experience"`
	Year       string             `bson:"year"`
	Match      matchDocument      `bson:"match"`
	Questions  []questionDocument `bson:"questions"`
	CreatedAt  time.Time          `bson:"createdAt"`
}

type matchDocument struct {
	Company  string `bson:"company"`
	Role     string `bson:"role"`
	Position string `bson:"position"`
	Year     string `bson:"year"`
}

type questionDocument struct {
	Text       string    `bson:"text"`
	Topic      string    `bson:"topic"`
	RoundType  string    `bson:"roundType"`
	Difficulty string    `bson:"difficulty"`
	Frequency  int       `bson:"frequency"`
	Recency    time.Time `bson:"recency"`
}

func toDocument(interview *entities.Interview) interviewDocument {
	qs := interview.Questions()
	questions := make([]questionDocument, len(qs))
	for i, q := range qs {
		questions[i] = questionDocument{
			Text:       q.Text(),
			Topic:      string(q.Topic()),
			RoundType:  string(q.RoundType()),
			Difficulty: string(q.Difficulty()),
			Frequency:  q.Frequency(),
			Recency:    q.Recency(),
		}
	}

	key := interview.MatchKey()
	return interviewDocument{
		ID:         interview.ID(),
		Company:    interview.Company(),
		Role:       interview.Role(),
		Position:   string(interview.Position()),
		Experience: interview.Experience(),
		Year:       interview.Year(),
		Match: matchDocument{
			Company:  key.Company,
			Role:     key.Role,
			Position: key.Position,
			Year:     key.Year,
		},
		Questions: questions,
		CreatedAt: interview.CreatedAt(),
	}
}

func (d interviewDocument) toEntity() *entities.Interview {
	questions := make([]entities.Question, len(d.Questions))
	for i, q := range d.Questions {
		questions[i] = entities.ReconstructQuestion(
			q.Text,
			valueobjects.Topic(q.Topic),
			valueobjects.RoundType(q.RoundType),
			valueobjects.Difficulty(q.Difficulty),
			q.Frequency,
			q.Recency.UTC(),
		)
	}

	return entities.ReconstructInterview(
		d.ID,
		d.Company,
		d.Role,
		valueobjects.Position(d.Position),
		d.Experience,
		d.Year,
		questions,
		d.CreatedAt.UTC(),
	)
}
