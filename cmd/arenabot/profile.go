package main

import (
	"encoding/json"
	"fmt"

	"github.com/quasilyte/gdata"
)

const profileKey = "profile"

// profile is the bot's identity and lifetime totals, kept between runs.
type profile struct {
	Name    string `json:"name"`
	Runs    int    `json:"runs"`
	Throws  int    `json:"throws"`
	Hits    int    `json:"hits"`
	Damage  int    `json:"damage"`
	Pickups int    `json:"pickups"`
}

type profileStore struct {
	m *gdata.Manager
}

func openProfileStore(appName string) (*profileStore, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("open gdata: %w", err)
	}
	return &profileStore{m: m}, nil
}

// load returns the saved profile, or a fresh one named fallback.
func (s *profileStore) load(fallback string) (profile, error) {
	p := profile{Name: fallback}
	data, err := s.m.LoadItem(profileKey)
	if err != nil {
		return p, fmt.Errorf("load profile: %w", err)
	}
	if data == nil {
		return p, nil
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return profile{Name: fallback}, fmt.Errorf("parse profile: %w", err)
	}
	if p.Name == "" {
		p.Name = fallback
	}
	return p, nil
}

func (s *profileStore) save(p profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := s.m.SaveItem(profileKey, data); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}
