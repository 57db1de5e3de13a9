package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/vnkhanh/wikismart-edu-backend/metrics"
	"github.com/vnkhanh/wikismart-edu-backend/models"
)

// QuizKeyStore keeps the answer key of each generated quiz, keyed by the
// article it was generated for, until it expires or is evicted. A newer
// quiz for the same article replaces the older key.
type QuizKeyStore struct {
	cache *expirable.LRU[uuid.UUID, models.Quiz]
}

func NewQuizKeyStore(size int, ttl time.Duration) *QuizKeyStore {
	return &QuizKeyStore{cache: expirable.NewLRU[uuid.UUID, models.Quiz](size, nil, ttl)}
}

func (s *QuizKeyStore) Put(articleID uuid.UUID, quiz models.Quiz) {
	s.cache.Add(articleID, quiz)
	metrics.QuizKeysStored.Inc()
}

func (s *QuizKeyStore) Get(articleID uuid.UUID) (models.Quiz, bool) {
	quiz, ok := s.cache.Get(articleID)
	if !ok {
		metrics.QuizKeyMisses.Inc()
	}
	return quiz, ok
}

func (s *QuizKeyStore) Len() int { return s.cache.Len() }
