package cfg

import (
	"testing"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestConfigFields(t *testing.T) {
	cfg := &Cfg{
		NewsAPIKey:   "newsapi-test-key",
		GuardianKey:  "guardian-test-key",
		NYTimesKey:   "nytimes-test-key",
		DBPath:       "./test.db",
		Port:         "8080",
		TaxonomyFile: "./taxonomy.yml",
		FetchTimeout: 10,
		WorkerCount:  2,
		UserAgent:    "Test Agent",
		Timezone:     "UTC",
		Debug:        true,
		Version:      "test-version",
	}

	if cfg.NewsAPIKey != "newsapi-test-key" {
		t.Errorf("Expected NewsAPI key 'newsapi-test-key', got '%s'", cfg.NewsAPIKey)
	}
	if cfg.GuardianKey != "guardian-test-key" {
		t.Errorf("Expected Guardian key 'guardian-test-key', got '%s'", cfg.GuardianKey)
	}
	if cfg.NYTimesKey != "nytimes-test-key" {
		t.Errorf("Expected NYTimes key 'nytimes-test-key', got '%s'", cfg.NYTimesKey)
	}
	if cfg.DBPath != "./test.db" {
		t.Errorf("Expected DB path './test.db', got '%s'", cfg.DBPath)
	}
	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.Port)
	}
	if cfg.TaxonomyFile != "./taxonomy.yml" {
		t.Errorf("Expected taxonomy file './taxonomy.yml', got '%s'", cfg.TaxonomyFile)
	}
	if cfg.FetchTimeout != 10 {
		t.Errorf("Expected fetch timeout 10, got %d", cfg.FetchTimeout)
	}
	if cfg.WorkerCount != 2 {
		t.Errorf("Expected worker count 2, got %d", cfg.WorkerCount)
	}
	if cfg.UserAgent != "Test Agent" {
		t.Errorf("Expected user agent 'Test Agent', got '%s'", cfg.UserAgent)
	}
	if cfg.Timezone != "UTC" {
		t.Errorf("Expected timezone 'UTC', got '%s'", cfg.Timezone)
	}
	if !cfg.Debug {
		t.Error("Expected debug to be enabled")
	}
	if cfg.Version != "test-version" {
		t.Errorf("Expected version 'test-version', got '%s'", cfg.Version)
	}
}
