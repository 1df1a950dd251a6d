package attendance

import (
	"context"
	"errors"
	"fmt"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/profile"
)

var (
	// errors
	ErrIdentityFailure = errors.New("student identity resolution failed")
	ErrWriteFailure    = errors.New("recording attendance failed")
)

type (
	Repository interface {
		CreateRecord(ctx context.Context, rec Record) (Record, error)
		// QueryRecentRecords returns up to limit records joined with the
		// student's profile, newest first.
		QueryRecentRecords(ctx context.Context, limit int) ([]RecordWithStudent, error)
	}

	// StudentResolver resolves the student and recorder identities of a
	// check-in event.
	StudentResolver interface {
		ResolveStudent(ctx context.Context, displayName, externalID string) (string, error)
		ResolveRecorder(ctx context.Context) string
	}

	Service struct {
		conf     *core.Config
		repo     Repository
		resolver StudentResolver
		notifier core.Notifier
		logger   core.Logger
	}
)

func NewService(conf *core.Config, repo Repository, resolver StudentResolver, notifier core.Notifier, logger core.Logger) *Service {
	return &Service{
		conf:     conf,
		repo:     repo,
		resolver: resolver,
		notifier: notifier,
		logger:   logger,
	}
}

// Record persists one attendance event. The default course must already be
// bootstrapped; its existence is a session-start precondition, not part of
// the per-event path. Exactly one notification is emitted per call. Failures
// are ErrIdentityFailure (wrapping the resolution error) or ErrWriteFailure;
// retrying is the caller's policy decision.
func (svc *Service) Record(ctx context.Context, ci NewCheckIn) (Record, error) {
	studentID, err := svc.resolver.ResolveStudent(ctx, ci.StudentName, ci.StudentID)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("resolving student %q: %v", ci.StudentID, err), err)
		svc.notifier.Error(ctx, fmt.Sprintf("Failed to record attendance for %s", ci.StudentName))
		return Record{}, core.NewKindError(ErrIdentityFailure, err)
	}

	// attribution is best-effort; an empty recorder is valid
	recordedBy := svc.resolver.ResolveRecorder(ctx)

	rec := Record{
		StudentID:  studentID,
		CourseID:   svc.conf.Attendance.DefaultCourseID,
		Method:     ci.Method,
		RecordedBy: null.NewString(recordedBy, recordedBy != ""),
		Notes:      null.NewString(ci.Notes, ci.Notes != ""),
	}
	rec, err = svc.repo.CreateRecord(ctx, rec)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("inserting attendance record for %q: %v", ci.StudentID, err), err)
		svc.notifier.Error(ctx, fmt.Sprintf("Failed to record attendance for %s", ci.StudentName))
		return Record{}, core.NewKindError(ErrWriteFailure, err)
	}

	svc.notifier.Success(ctx, fmt.Sprintf("Attendance recorded for %s", ci.StudentName))
	return rec, nil
}

// ListRecent returns the latest check-ins joined with student data, newest
// first. A record whose profile data is missing degrades to a placeholder
// label rather than failing the whole read.
func (svc *Service) ListRecent(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = svc.conf.Attendance.DefaultRecentLimit
	}
	rows, err := svc.repo.QueryRecentRecords(ctx, limit)
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(rows))
	for _, row := range rows {
		s := Summary{
			ID:                row.ID,
			StudentName:       "Unknown",
			StudentExternalID: "Unknown",
			CheckInTime:       row.CheckInTime,
			Method:            row.Method,
			Notes:             row.Notes,
		}
		if row.StudentName.Valid {
			s.StudentName = row.StudentName.String
		}
		if row.StudentLoginKey.Valid {
			s.StudentExternalID = profile.ExternalID(row.StudentLoginKey.String)
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}
