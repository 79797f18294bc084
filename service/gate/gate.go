package gate

import (
	"context"
	"strconv"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/fox-one/pkg/property"

	"lever/core"
)

const (
	// GateKeyPaused pause switch property key
	GateKeyPaused = "lever_paused"
	// GateKeyRunners permitted runner whitelist property key
	GateKeyRunners = "lever_runners"
)

type service struct {
	config        *core.Config
	propertyStore property.Store
}

// New new gate service
func New(config *core.Config, propertyStr property.Store) core.IGateService {
	return &service{
		config:        config,
		propertyStore: propertyStr,
	}
}

func (s *service) Paused(ctx context.Context) (bool, error) {
	v, err := s.propertyStore.Get(ctx, GateKeyPaused)
	if err != nil {
		return false, err
	}

	paused, _ := strconv.ParseBool(v.String())
	return paused, nil
}

func (s *service) SetPaused(ctx context.Context, paused bool) error {
	return s.propertyStore.Save(ctx, GateKeyPaused, paused)
}

func (s *service) IsOwner(ctx context.Context, userID string) (bool, error) {
	return s.config.IsOwner(userID), nil
}

func (s *service) IsRunner(ctx context.Context, userID string) (bool, error) {
	runners, err := s.runners(ctx)
	if err != nil {
		return false, err
	}

	return govalidator.IsIn(userID, runners...), nil
}

func (s *service) AddRunner(ctx context.Context, userID string) error {
	runners, err := s.runners(ctx)
	if err != nil {
		return err
	}

	if govalidator.IsIn(userID, runners...) {
		return nil
	}

	runners = append(runners, userID)
	return s.propertyStore.Save(ctx, GateKeyRunners, strings.Join(runners, ","))
}

func (s *service) RemoveRunner(ctx context.Context, userID string) error {
	runners, err := s.runners(ctx)
	if err != nil {
		return err
	}

	kept := runners[:0]
	for _, r := range runners {
		if r != userID {
			kept = append(kept, r)
		}
	}

	return s.propertyStore.Save(ctx, GateKeyRunners, strings.Join(kept, ","))
}

func (s *service) runners(ctx context.Context) ([]string, error) {
	v, err := s.propertyStore.Get(ctx, GateKeyRunners)
	if err != nil {
		return nil, err
	}

	joined := v.String()
	if joined == "" {
		return nil, nil
	}

	return strings.Split(joined, ","), nil
}
