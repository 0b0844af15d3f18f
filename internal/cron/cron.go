package cron

import (
	"context"
	"sync"
	"time"

	cronv3 "github.com/robfig/cron/v3"

	"github.com/mailpin/mailpin/config"
	"github.com/mailpin/mailpin/interfaces"
	"github.com/mailpin/mailpin/internal/logger"
	"github.com/mailpin/mailpin/internal/tracing"
)

// jobLocks keeps a sweep from overlapping itself when a run outlasts
// the schedule interval
var jobLocks = struct {
	sync.Mutex
	locks map[string]*sync.Mutex
}{
	locks: map[string]*sync.Mutex{
		"attachment_integrity": new(sync.Mutex),
	},
}

type CronManager struct {
	cfg         *config.Config
	log         logger.Logger
	cron        *cronv3.Cron
	attachments interfaces.EmailAttachmentRepository
	storage     interfaces.StorageService
	jobIDs      map[string]cronv3.EntryID
}

func NewCronManager(cfg *config.Config, log logger.Logger, attachments interfaces.EmailAttachmentRepository, storage interfaces.StorageService) *CronManager {
	return &CronManager{
		cfg:         cfg,
		log:         log,
		attachments: attachments,
		storage:     storage,
		jobIDs:      make(map[string]cronv3.EntryID),
	}
}

// Start initializes and starts the cron scheduler
func (cm *CronManager) Start() {
	cm.log.Info("Starting cron manager")
	cronOptions := []cronv3.Option{
		cronv3.WithChain(
			cronv3.SkipIfStillRunning(cronv3.DefaultLogger),
			cronv3.Recover(cronv3.DefaultLogger),
		),
	}
	c := cronv3.New(cronOptions...)
	cm.registerJobs(c)
	c.Start()
	cm.cron = c
}

// Stop gracefully stops the cron scheduler, waiting for running jobs
func (cm *CronManager) Stop() {
	if cm.cron != nil {
		cm.log.Info("Stopping cron manager")
		ctx := cm.cron.Stop()
		<-ctx.Done()
	}
}

func (cm *CronManager) registerJobs(c *cronv3.Cron) {
	schedule := cm.cfg.CronConfig.AttachmentIntegritySchedule
	if schedule == "" {
		return
	}

	id, err := c.AddFunc(schedule, func() {
		defer tracing.RecoverAndLogToJaeger(cm.log)
		jobLocks.locks["attachment_integrity"].Lock()
		defer jobLocks.locks["attachment_integrity"].Unlock()
		cm.checkAttachmentIntegrity()
	})
	if err != nil {
		cm.log.Fatalf("Could not add attachment integrity cron job: %v", err)
	}
	cm.jobIDs["attachment_integrity"] = id
	cm.log.Infof("Registered attachment integrity job with schedule: %s", schedule)
}

// checkAttachmentIntegrity verifies that recently created attachment
// records have a readable file in storage. Discrepancies are logged, not
// repaired: records are append-only and the database content column
// still holds the bytes.
func (cm *CronManager) checkAttachmentIntegrity() {
	ctx := context.Background()

	span, ctx := tracing.StartTracerSpan(ctx, "CronManager.checkAttachmentIntegrity")
	defer span.Finish()
	tracing.TagComponentCronJob(span)

	window := time.Duration(cm.cfg.CronConfig.AttachmentIntegrityWindow) * time.Hour
	since := time.Now().UTC().Add(-window)

	attachments, err := cm.attachments.ListCreatedSince(ctx, since)
	if err != nil {
		tracing.TraceErr(span, err)
		cm.log.Errorf("Failed to list attachments for integrity check: %v", err)
		return
	}

	missing := 0
	for _, attachment := range attachments {
		if attachment.StorageKey == "" {
			missing++
			cm.log.Warnf("Attachment %s has no storage key", attachment.ID)
			continue
		}
		exists, err := cm.storage.Exists(ctx, attachment.StorageKey)
		if err != nil {
			tracing.TraceErr(span, err)
			cm.log.Errorf("Failed to check storage for attachment %s: %v", attachment.ID, err)
			continue
		}
		if !exists {
			missing++
			cm.log.Warnf("Attachment %s missing from storage, key %s", attachment.ID, attachment.StorageKey)
		}
	}

	span.SetTag("attachments.checked", len(attachments))
	span.SetTag("attachments.missing", missing)
	cm.log.Infof("Attachment integrity check done, checked %d, missing %d", len(attachments), missing)
}
