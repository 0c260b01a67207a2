package services

import (
	"context"
	"testing"

	"github.com/SAP-F-2025/learning-service/internal/config"
	"github.com/SAP-F-2025/learning-service/internal/validator"
)

func TestServiceManager_Lifecycle(t *testing.T) {
	sm := NewDefaultServiceManager(nil, &stubRepository{}, testLogger(), validator.New(), testCache(), nil, config.AIConfig{})

	t.Run("getter panics before initialize", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic on uninitialized getter")
			}
		}()
		sm.Progress()
	})

	if err := sm.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	t.Run("getters return wired services", func(t *testing.T) {
		if sm.Progress() == nil || sm.Dashboard() == nil || sm.TeacherAnalytics() == nil ||
			sm.AssessmentAnalytics() == nil || sm.StudentPerformance() == nil ||
			sm.Assessment() == nil || sm.Generation() == nil ||
			sm.Submission() == nil || sm.Export() == nil {
			t.Error("expected all services wired after Initialize")
		}
	})

	t.Run("initialize is idempotent", func(t *testing.T) {
		if err := sm.Initialize(context.Background()); err != nil {
			t.Errorf("second Initialize failed: %v", err)
		}
	})

	if err := sm.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck failed: %v", err)
	}

	if err := sm.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
	if err := sm.HealthCheck(context.Background()); err == nil {
		t.Error("expected health check failure after shutdown")
	}
}
