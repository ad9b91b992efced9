// Package services provides external service integrations and technical concerns like notifications and tokens
package services

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wenlng/go-captcha/v2/rotate"
	xdraw "golang.org/x/image/draw"
)

// CaptchaService guards the admin login with a rotate captcha from
// go-captcha. Generate returns a challenge ID plus two base64 images; Verify
// checks the user-provided rotation angle against the stored target within a
// tolerance. Challenges live in memory with a TTL and are consumed on the
// first verification attempt.
type CaptchaService interface {
	GenerateRotate(ctx context.Context) (*RotateChallenge, error)
	VerifyRotate(ctx context.Context, challengeID string, userAngle float64) bool
}

type RotateChallenge struct {
	ID                string
	MasterImageBase64 string
	ThumbImageBase64  string
}

type captchaServiceImpl struct {
	rotator rotate.Captcha
	store   *challengeStore
	padding int // tolerance for angle validation, degrees
}

// NewCaptchaServiceRotate constructs a CaptchaService using rotate mode
func NewCaptchaServiceRotate(ttl time.Duration, padding int, imgSizePx int) (CaptchaService, error) {
	if imgSizePx <= 0 {
		imgSizePx = 220
	}

	builder := rotate.NewBuilder(
		rotate.WithImageSquareSize(imgSizePx),
	)
	builder.SetResources(
		rotate.WithImages(captchaBackgrounds(3, imgSizePx)),
	)

	return &captchaServiceImpl{
		rotator: builder.Make(),
		store:   newChallengeStore(ttl),
		padding: padding,
	}, nil
}

func (s *captchaServiceImpl) GenerateRotate(ctx context.Context) (*RotateChallenge, error) {
	captData, err := s.rotator.Generate()
	if err != nil {
		return nil, err
	}

	block := captData.GetData()
	if block == nil {
		return nil, errors.New("rotate captcha generated no block data")
	}

	masterB64, err := captData.GetMasterImage().ToBase64()
	if err != nil {
		return nil, err
	}
	thumbB64, err := captData.GetThumbImage().ToBase64()
	if err != nil {
		return nil, err
	}

	challengeID := uuid.New().String()
	s.store.Put(challengeID, block.Angle)

	return &RotateChallenge{
		ID:                challengeID,
		MasterImageBase64: masterB64,
		ThumbImageBase64:  thumbB64,
	}, nil
}

func (s *captchaServiceImpl) VerifyRotate(ctx context.Context, challengeID string, userAngle float64) bool {
	targetAngle, ok := s.store.Take(challengeID)
	if !ok {
		return false
	}

	return rotate.Validate(int(math.Round(userAngle)), targetAngle, s.padding)
}

type challengeEntry struct {
	targetAngle int
	expiresAt   time.Time
}

// challengeStore is an in-memory TTL map. One store per process is enough
// for the single admin login surface.
type challengeStore struct {
	mu  sync.Mutex
	m   map[string]challengeEntry
	ttl time.Duration
}

func newChallengeStore(ttl time.Duration) *challengeStore {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	cs := &challengeStore{
		m:   make(map[string]challengeEntry),
		ttl: ttl,
	}
	go cs.cleanupLoop()
	return cs
}

func (s *challengeStore) Put(id string, targetAngle int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[id] = challengeEntry{
		targetAngle: targetAngle,
		expiresAt:   time.Now().Add(s.ttl),
	}
}

// Take removes and returns the challenge; a challenge is single-use
func (s *challengeStore) Take(id string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.m[id]
	if !ok {
		return 0, false
	}
	delete(s.m, id)

	if time.Now().After(entry.expiresAt) {
		return 0, false
	}
	return entry.targetAngle, true
}

func (s *challengeStore) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		now := time.Now()
		s.mu.Lock()
		for id, entry := range s.m {
			if now.After(entry.expiresAt) {
				delete(s.m, id)
			}
		}
		s.mu.Unlock()
	}
}

func captchaBackgrounds(n int, size int) []image.Image {
	if n <= 0 {
		n = 1
	}
	imgs := make([]image.Image, 0, n)
	for i := 0; i < n; i++ {
		imgs = append(imgs, newStripedGradientImage(size, size))
	}
	return imgs
}

// newStripedGradientImage renders the gradient at half resolution and scales
// it up, which softens the noise into a texture the rotator can mask.
func newStripedGradientImage(w, h int) image.Image {
	sw, sh := w/2, h/2
	if sw < 1 {
		sw = 1
	}
	if sh < 1 {
		sh = 1
	}
	small := image.NewRGBA(image.Rect(0, 0, sw, sh))
	for y := 0; y < sh; y++ {
		for x := 0; x < sw; x++ {
			t := float64(x+y) / float64(sw+sh)
			base := uint8(220 - int(140*t))
			noise := uint8(rand.Intn(24))
			small.Set(x, y, color.RGBA{R: base, G: base - base/4 + noise/2, B: 255 - base/3, A: 255})
		}
	}

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.BiLinear.Scale(rgba, rgba.Bounds(), small, small.Bounds(), xdraw.Src, nil)

	// a couple of translucent bands so rotation is visible
	band := image.Rect(0, h/4, w, h/4+h/14)
	draw.Draw(rgba, band, &image.Uniform{C: color.RGBA{R: 255, G: 255, B: 255, A: 36}}, image.Point{}, draw.Over)
	band = image.Rect(w/3, 0, w/3+w/16, h)
	draw.Draw(rgba, band, &image.Uniform{C: color.RGBA{A: 28}}, image.Point{}, draw.Over)
	return rgba
}
