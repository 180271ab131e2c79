package models

import (
	"context"
	"sync"
	"time"

	ttlworker "github.com/FloatTech/ttl"
	"github.com/google/uuid"

	"github.com/imageshare/imageshare-go/api/notifyhub"
	"github.com/imageshare/imageshare-go/share"
	"github.com/imageshare/imageshare-go/tool"
	"github.com/imageshare/imageshare-go/transfer"
	"github.com/imageshare/imageshare-go/types"
)

const BatchTTL = 60 * time.Minute

// BatchRecord tracks one submitted batch. Task goroutines update it
// independently as they finish.
type BatchRecord struct {
	mu      sync.Mutex
	BatchId string
	Total   int
	done    int
	results []types.TaskResult
}

func (b *BatchRecord) addResult(r types.TaskResult) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.done++
	b.results = append(b.results, r)
}

func (b *BatchRecord) Snapshot() types.BatchStatus {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]types.TaskResult, len(b.results))
	copy(out, b.results)
	return types.BatchStatus{
		BatchId: b.BatchId,
		Total:   b.Total,
		Done:    b.done,
		Results: out,
	}
}

var (
	Batches = ttlworker.NewCache[string, *BatchRecord](BatchTTL)

	sessionState *share.State
	notifyHub    *notifyhub.Hub
)

// SetSessionState wires the shared session context used by all batches.
func SetSessionState(s *share.State) {
	sessionState = s
}

func GetSessionState() *share.State {
	return sessionState
}

func SetNotifyHub(hub *notifyhub.Hub) {
	notifyHub = hub
}

func GetNotifyHub() *notifyhub.Hub {
	return notifyHub
}

func GetBatch(batchId string) (*BatchRecord, bool) {
	rec := Batches.Get(batchId)
	return rec, rec != nil
}

// SubmitBatch fans the files out into independent concurrent upload tasks.
// The banner goes neutral and the submit affordance is disabled before any
// dispatch; it stays disabled until the user makes a new selection, so a
// finishing task never re-arms an accidental double submit. Tasks are
// joined independently and one failure never aborts a sibling.
func SubmitBatch(files []types.SelectedFile) string {
	sess := sessionState
	cfg := tool.GetCurrentConfig()

	rec := &BatchRecord{
		BatchId: uuid.NewString(),
		Total:   len(files),
	}
	Batches.Set(rec.BatchId, rec)

	sess.SetBanner(types.BannerInfo, "Uploading...")
	sess.SetSubmitEnabled(false)

	if cfg.ProbeHost {
		// reachability hint only, runs aside the uploads
		go func(endpoint string) {
			host := tool.EndpointHost(endpoint)
			if host == "" {
				return
			}
			if !tool.QuickICMPProbe(host, 2*time.Second) {
				tool.DefaultLogger.Warnf("Collaborator host %s did not answer ICMP probe", host)
			}
		}(cfg.Endpoint)
	}

	client := tool.GetHttpClient()
	for _, file := range files {
		go func(f types.SelectedFile) {
			task := transfer.NewTask(f, sess)
			result := task.Run(context.Background(), client, cfg.Endpoint, cfg.FieldName)
			rec.addResult(result)
		}(file)
	}
	return rec.BatchId
}
