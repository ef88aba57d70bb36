package services

import (
	"bufio"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

// SocialProofEvent is a fabricated "recent withdrawal" notification for the
// client's ticker. Purely cosmetic: no connection to real users, balances or
// task state.
type SocialProofEvent struct {
	DisplayName string `json:"display_name"`
	Amount      int64  `json:"amount"`
}

const (
	socialProofMinAmount = 75_000
	socialProofMaxAmount = 2_000_000
)

var withdrawalNames = []string{
	"Vera Friday", "Chioma Okafor", "Blessing Eze", "Faith Nwosu", "Grace Onyeka",
	"Mercy Adebayo", "Joy Okoro", "Peace Ugwu", "Rose Nnamdi", "Gloria Emeka",
	"Gift Chukwu", "Divine Ibrahim", "Praise Okon", "Success Oluwaseun", "Favour Chidi",
	"Treasure Amara", "Victory Chiamaka", "Precious Ifeoma", "Loveth Ngozi", "Miracle Ebere",
	"Emmanuel Obi", "Daniel Odenigbo", "David Ezekiel", "Samuel Chukwuemeka", "Joseph Ikenna",
	"Michael Chinedu", "Benjamin Obinna", "James Uzochukwu", "John Ifeanyi", "Peter Nnamdi",
	"Esther Adaeze", "Mary Chinelo", "Sarah Nneka", "Ruth Chidinma", "Deborah Amarachi",
	"Hannah Chidimma", "Rebecca Obiageli", "Rachael Ugochi", "Lydia Oluchi", "Naomi Chioma",
}

// SocialProofService emits fabricated withdrawal events at randomized
// intervals within [MinGap, MaxGap].
type SocialProofService struct {
	MinGap       time.Duration
	MaxGap       time.Duration
	InitialDelay time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

func NewSocialProofService(minGap, maxGap time.Duration) *SocialProofService {
	if maxGap < minGap {
		maxGap = minGap
	}
	return &SocialProofService{
		MinGap:       minGap,
		MaxGap:       maxGap,
		InitialDelay: 3 * time.Second,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NextEvent fabricates one event: a name from the fixed list and an amount
// between 75,000 and 2,000,000.
func (s *SocialProofService) NextEvent() SocialProofEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SocialProofEvent{
		DisplayName: withdrawalNames[s.rng.Intn(len(withdrawalNames))],
		Amount:      socialProofMinAmount + s.rng.Int63n(socialProofMaxAmount-socialProofMinAmount+1),
	}
}

// NextGap draws the delay before the next event, within [MinGap, MaxGap].
func (s *SocialProofService) NextGap() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	span := s.MaxGap - s.MinGap
	if span <= 0 {
		return s.MinGap
	}
	return s.MinGap + time.Duration(s.rng.Int63n(int64(span)+1))
}

// StreamWithdrawalsSSE streams fabricated withdrawal events until the client
// disconnects. The stream is infinite and non-restartable; how long each
// event stays visible is the client's concern.
func (s *SocialProofService) StreamWithdrawalsSSE(c *fiber.Ctx) error {
	// SSE headers
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no") // nginx

	ctx := c.Context()
	ctx.SetBodyStreamWriter(func(w *bufio.Writer) {
		// Initial keepalive (comment event)
		w.WriteString(":\n\n")
		if err := w.Flush(); err != nil {
			return
		}

		timer := time.NewTimer(s.InitialDelay)
		defer timer.Stop()

		for {
			select {
			case <-timer.C:
				payload, _ := json.Marshal(s.NextEvent())
				fmt.Fprintf(w, "event: withdrawal\ndata: %s\n\n", payload)
				if err := w.Flush(); err != nil {
					// Client disconnected
					return
				}
				timer.Reset(s.NextGap())

			case <-ctx.Done():
				// Client closed connection
				return
			}
		}
	})

	return nil
}
