package core

import (
	"sync"
	"testing"
)

func TestExecutionLog_ConcurrentAppends(t *testing.T) {
	log := NewExecutionLog()
	const workers = 16
	const perWorker = 50

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(scene int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				log.Append(ExecutionAttempt{
					SceneNumber:   scene,
					Tool:          "luma_ray",
					Status:        AttemptFailed,
					FailureKind:   FailureTransient,
					AttemptNumber: i + 1,
				})
			}
		}(w + 1)
	}
	wg.Wait()

	if log.Len() != workers*perWorker {
		t.Fatalf("expected %d attempts, got %d", workers*perWorker, log.Len())
	}
	if got := len(log.ForScene(1)); got != perWorker {
		t.Fatalf("expected %d attempts for scene 1, got %d", perWorker, got)
	}
}

func TestExecutionLog_AttemptsReturnsCopy(t *testing.T) {
	log := NewExecutionLog()
	log.Append(ExecutionAttempt{Tool: "flux_dev", Status: AttemptSuccess})

	snapshot := log.Attempts()
	snapshot[0].Tool = "mutated"

	if log.Attempts()[0].Tool != "flux_dev" {
		t.Fatal("log contents must not be mutable through snapshots")
	}
}

func TestExecutionResult_ArtifactPath(t *testing.T) {
	r := &ExecutionResult{Output: map[string]any{"artifact_path": "/out/scene_1.png"}}
	if r.ArtifactPath() != "/out/scene_1.png" {
		t.Fatalf("unexpected path: %s", r.ArtifactPath())
	}

	if (&ExecutionResult{Output: map[string]any{"artifact_path": 42}}).ArtifactPath() != "" {
		t.Fatal("non-string path must yield empty")
	}
	var nilResult *ExecutionResult
	if nilResult.ArtifactPath() != "" {
		t.Fatal("nil result must yield empty path")
	}
}
