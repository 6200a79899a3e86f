package content

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hillview-school/school-cms/internal/assets"
	"github.com/hillview-school/school-cms/pkg/config"
	"github.com/hillview-school/school-cms/pkg/db"
	pkgerrors "github.com/hillview-school/school-cms/pkg/errors"
	"github.com/hillview-school/school-cms/pkg/fileinfo"
	"github.com/hillview-school/school-cms/pkg/logger"
	"github.com/hillview-school/school-cms/pkg/pagination"
)

type repository[T any] interface {
	Create(ctx context.Context, rec *T) error
	FindByID(ctx context.Context, id uint) (*T, error)
	Save(ctx context.Context, rec *T) error
	Delete(ctx context.Context, id uint) (bool, error)
	List(ctx context.Context, q Query) ([]T, int64, error)
	Recent(ctx context.Context, limit int) ([]T, error)
}

type assetTransfer interface {
	Check(file assets.FileUpload, c assets.Constraints) error
	Upload(ctx context.Context, store assets.Store, folder string, file assets.FileUpload) (assets.Uploaded, error)
	DeleteAll(ctx context.Context, store assets.Store, urls []string) assets.DeleteReport
}

// Service is the CRUD surface of one content collection.
type Service[T any] interface {
	Entity() string
	Form() Form
	Create(ctx context.Context, sub Submission) (*Outcome[T], error)
	Get(ctx context.Context, id uint) (*Outcome[T], error)
	List(ctx context.Context, params ListParams) (*Page[T], error)
	Update(ctx context.Context, id uint, sub Submission) (*Outcome[T], error)
	Delete(ctx context.Context, id uint) (*DeleteOutcome, error)
	Recent(ctx context.Context, limit int) ([]Summary, error)
}

type service[T any] struct {
	schema Schema[T]
	repo   repository[T]
	files  assetTransfer
	logg   *logger.Logger
}

// NewService wires a collection schema to its repository and file storage.
// Attachments without an explicit size limit inherit the per-store limit.
func NewService[T any](schema Schema[T], repo repository[T], files assetTransfer, limits config.UploadsConfig, logg *logger.Logger) (Service[T], error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	if repo == nil {
		return nil, fmt.Errorf("%s repository required", schema.Entity)
	}
	if files == nil && len(schema.Attachments) > 0 {
		return nil, fmt.Errorf("%s asset transfer required", schema.Entity)
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}

	attachments := make([]Attachment[T], len(schema.Attachments))
	copy(attachments, schema.Attachments)
	for i := range attachments {
		if attachments[i].Constraints.MaxBytes > 0 {
			continue
		}
		if attachments[i].Store == assets.StoreImages {
			attachments[i].Constraints.MaxBytes = limits.MaxImageBytes()
		} else {
			attachments[i].Constraints.MaxBytes = limits.MaxFileBytes()
		}
	}
	schema.Attachments = attachments

	return &service[T]{schema: schema, repo: repo, files: files, logg: logg}, nil
}

func (s *service[T]) Entity() string { return s.schema.Entity }

func (s *service[T]) Form() Form { return s.schema.Form() }

func (s *service[T]) Create(ctx context.Context, sub Submission) (*Outcome[T], error) {
	ctx = s.logg.WithEntity(ctx, s.schema.Entity)

	var missingLabels, missingKeys []string
	for _, f := range s.schema.Fields {
		if _, ok := sub.value(f.Key); !ok && f.Required && f.Default == "" {
			missingLabels = append(missingLabels, f.Label)
			missingKeys = append(missingKeys, f.Key)
		}
	}
	if len(missingKeys) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Missing required fields: "+strings.Join(missingLabels, ", ")).
			WithDetails(map[string]any{"missing": missingKeys})
	}

	rec := new(T)
	var probs problems
	for _, f := range s.schema.Fields {
		raw, ok := sub.value(f.Key)
		if !ok {
			if f.Default == "" {
				continue
			}
			raw = f.Default
		}
		if err := f.Assign(rec, raw); err != nil {
			probs.add(f.Key, f.Label+" "+err.Error())
		}
	}
	s.checkRecord(&probs, rec)
	for _, a := range s.schema.Attachments {
		files := sub.Files[a.Key]
		s.checkFiles(&probs, a.AttachmentSpec, files)
		if a.MinFiles > 0 && len(files) < a.MinFiles {
			probs.add(a.Key, minFilesMessage(a.AttachmentSpec))
		}
	}
	if err := probs.err(); err != nil {
		return nil, err
	}

	var (
		batch    uploadBatch
		warnings []string
	)
	for _, a := range s.schema.Attachments {
		uploaded, warns := s.uploadAll(ctx, a.AttachmentSpec, sub.Files[a.Key])
		warnings = append(warnings, warns...)
		batch.add(a.Store, uploaded)
		if a.MinFiles > 0 && len(uploaded) == 0 {
			s.discard(ctx, batch)
			return nil, pkgerrors.New(pkgerrors.CodeInternal, "Failed to upload "+strings.ToLower(a.Label))
		}
		a.set(rec, urlsOf(uploaded))
		if a.setMeta != nil {
			a.setMeta(rec, metaOf(uploaded))
		}
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		s.discard(ctx, batch)
		return nil, s.writeError(err, "creating")
	}

	lctx := s.logg.WithFields(ctx, map[string]any{"id": s.schema.ID(rec), "submitted_files": sub.fileCount(), "stored_files": batch.count()})
	s.logg.Info(lctx, "content.created")

	return s.outcome(rec, warnings), nil
}

func (s *service[T]) Get(ctx context.Context, id uint) (*Outcome[T], error) {
	rec, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.outcome(rec, nil), nil
}

func (s *service[T]) List(ctx context.Context, params ListParams) (*Page[T], error) {
	p := params.Params.Normalize()

	filters := map[string]any{}
	var probs problems
	for key, raw := range params.Filters {
		f, ok := s.schema.field(key)
		if !ok || !f.Filter {
			continue
		}
		raw = strings.TrimSpace(raw)
		if raw == "" || strings.EqualFold(raw, "all") {
			continue
		}
		value, err := filterValue(f.FieldSpec, raw)
		if err != nil {
			probs.add(key, f.Label+" filter "+err.Error())
			continue
		}
		filters[f.Column] = value
	}
	if err := probs.err(); err != nil {
		return nil, err
	}

	rows, total, err := s.repo.List(ctx, Query{
		Filters:       filters,
		SearchColumns: s.schema.searchColumns(),
		Search:        params.Search,
		Order:         s.schema.Order,
		Offset:        p.Offset(),
		Limit:         p.Limit,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing "+s.schema.Entity)
	}
	return &Page[T]{Items: rows, Pagination: pagination.NewMeta(p, total)}, nil
}

type attachmentPlan struct {
	keep     []string
	removed  []string
	uploaded []assets.Uploaded
}

func (s *service[T]) Update(ctx context.Context, id uint, sub Submission) (*Outcome[T], error) {
	ctx = s.logg.WithEntity(ctx, s.schema.Entity)

	rec, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if current := s.schema.UpdatedAt(rec); stale(current, sub) {
		return nil, pkgerrors.New(pkgerrors.CodePrecondition, s.schema.Singular+" was modified by another request").
			WithDetails(map[string]any{"updatedAt": current})
	}

	var probs problems
	for _, f := range s.schema.Fields {
		raw, ok := sub.value(f.Key)
		if !ok {
			continue
		}
		if err := f.Assign(rec, raw); err != nil {
			if f.Kind == KindDate {
				lctx := s.logg.WithFields(ctx, map[string]any{"field": f.Key, "value": raw})
				s.logg.Warn(lctx, "content.update.date_ignored")
				continue
			}
			probs.add(f.Key, f.Label+" "+err.Error())
		}
	}

	s.checkRecord(&probs, rec)

	plans := make([]attachmentPlan, len(s.schema.Attachments))
	for i, a := range s.schema.Attachments {
		files := sub.Files[a.Key]
		s.checkFiles(&probs, a.AttachmentSpec, files)
		plans[i].keep, plans[i].removed = partition(a.get(rec), sub.Removals[a.Key])
		if a.MinFiles > 0 && len(plans[i].keep)+len(files) < a.MinFiles {
			probs.add(a.Key, minFilesMessage(a.AttachmentSpec))
		}
	}
	if err := probs.err(); err != nil {
		return nil, err
	}

	var (
		batch    uploadBatch
		warnings []string
	)
	for i, a := range s.schema.Attachments {
		plan := &plans[i]
		uploaded, warns := s.uploadAll(ctx, a.AttachmentSpec, sub.Files[a.Key])
		warnings = append(warnings, warns...)
		batch.add(a.Store, uploaded)
		plan.uploaded = uploaded

		if !a.Multiple && len(uploaded) > 0 {
			plan.removed = append(plan.removed, plan.keep...)
			plan.keep = nil
		}
		if a.MinFiles > 0 && len(plan.keep)+len(uploaded) == 0 {
			s.discard(ctx, batch)
			return nil, pkgerrors.New(pkgerrors.CodeInternal, "Failed to upload "+strings.ToLower(a.Label))
		}

		if a.setMeta != nil {
			a.setMeta(rec, append(keepMeta(a.getMeta(rec), plan.keep), metaOf(uploaded)...))
		}
		a.set(rec, append(plan.keep, urlsOf(uploaded)...))
	}

	if err := s.repo.Save(ctx, rec); err != nil {
		s.discard(ctx, batch)
		return nil, s.writeError(err, "updating")
	}

	for i, a := range s.schema.Attachments {
		if len(plans[i].removed) == 0 {
			continue
		}
		report := s.files.DeleteAll(ctx, a.Store, plans[i].removed)
		for _, u := range report.Failed {
			warnings = append(warnings, "Failed to delete "+fileinfo.Derive(u).FileName)
		}
	}

	lctx := s.logg.WithFields(ctx, map[string]any{"id": id, "uploaded": batch.count()})
	s.logg.Info(lctx, "content.updated")

	return s.outcome(rec, warnings), nil
}

func (s *service[T]) Delete(ctx context.Context, id uint) (*DeleteOutcome, error) {
	ctx = s.logg.WithEntity(ctx, s.schema.Entity)

	rec, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	out := &DeleteOutcome{ID: id}
	for _, a := range s.schema.Attachments {
		report := s.files.DeleteAll(ctx, a.Store, a.get(rec))
		out.DeletedFiles += report.Deleted
		out.FailedFiles = append(out.FailedFiles, report.Failed...)
	}
	for _, u := range out.FailedFiles {
		out.Warnings = append(out.Warnings, "Failed to delete "+fileinfo.Derive(u).FileName)
	}

	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting "+s.schema.Entity)
	}
	if !found {
		return nil, s.notFound()
	}

	lctx := s.logg.WithFields(ctx, map[string]any{"id": id, "deleted_files": out.DeletedFiles, "failed_files": len(out.FailedFiles)})
	s.logg.Info(lctx, "content.deleted")

	return out, nil
}

func (s *service[T]) Recent(ctx context.Context, limit int) ([]Summary, error) {
	rows, err := s.repo.Recent(ctx, pagination.NormalizeLimit(limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading recent "+s.schema.Entity)
	}
	out := make([]Summary, 0, len(rows))
	for i := range rows {
		rec := &rows[i]
		out = append(out, Summary{
			Entity:    s.schema.Entity,
			ID:        s.schema.ID(rec),
			Title:     s.schema.Title(rec),
			UpdatedAt: s.schema.UpdatedAt(rec),
		})
	}
	return out, nil
}

func (s *service[T]) find(ctx context.Context, id uint) (*T, error) {
	if id == 0 {
		return nil, s.notFound()
	}
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, s.notFound()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading "+s.schema.Entity)
	}
	return rec, nil
}

func (s *service[T]) notFound() error {
	return pkgerrors.New(pkgerrors.CodeNotFound, s.schema.Singular+" not found")
}

func (s *service[T]) writeError(err error, verb string) error {
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "A "+strings.ToLower(s.schema.Singular)+" with the same unique value already exists")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, verb+" "+s.schema.Entity)
}

func (s *service[T]) outcome(rec *T, warnings []string) *Outcome[T] {
	out := &Outcome[T]{
		Record:     rec,
		Files:      map[string][]fileinfo.Info{},
		FileCounts: map[string]int{},
		Warnings:   warnings,
	}
	for _, a := range s.schema.Attachments {
		urls := a.get(rec)
		out.Files[a.Key] = fileinfo.DeriveAll(urls)
		out.FileCounts[a.Key] = len(urls)
	}
	return out
}

func (s *service[T]) checkRecord(probs *problems, rec *T) {
	if s.schema.Check == nil || len(probs.keys) > 0 {
		return
	}
	if err := s.schema.Check(rec); err != nil {
		probs.add("record", err.Error())
	}
}

func (s *service[T]) checkFiles(probs *problems, a AttachmentSpec, files []assets.FileUpload) {
	if len(files) == 0 {
		return
	}
	if !a.Multiple && len(files) > 1 {
		probs.add(a.Key, a.Label+" accepts a single file")
		return
	}
	var msgs []string
	for _, f := range files {
		if err := s.files.Check(f, a.Constraints); err != nil {
			msgs = append(msgs, err.Error())
		}
	}
	if len(msgs) > 0 {
		probs.add(a.Key, strings.Join(msgs, "; "))
	}
}

// uploadAll stores files in order. A failed file is logged and skipped.
func (s *service[T]) uploadAll(ctx context.Context, a AttachmentSpec, files []assets.FileUpload) ([]assets.Uploaded, []string) {
	out := make([]assets.Uploaded, 0, len(files))
	var warnings []string
	for _, f := range files {
		up, err := s.files.Upload(ctx, a.Store, a.Folder, f)
		if err != nil {
			lctx := s.logg.WithFields(ctx, map[string]any{"attachment": a.Key, "file": f.Name, "size": fileinfo.HumanSize(f.Size)})
			s.logg.Error(lctx, "content.upload_failed", err)
			warnings = append(warnings, "Failed to upload "+f.Name)
			continue
		}
		out = append(out, up)
	}
	return out, warnings
}

// discard removes files uploaded by a request that did not persist.
func (s *service[T]) discard(ctx context.Context, batch uploadBatch) {
	for store, urls := range batch {
		report := s.files.DeleteAll(ctx, store, urls)
		if report.Err != nil {
			s.logg.Error(ctx, "content.discard_failed", report.Err)
		}
	}
}

type uploadBatch map[assets.Store][]string

func (b *uploadBatch) add(store assets.Store, uploaded []assets.Uploaded) {
	if len(uploaded) == 0 {
		return
	}
	if *b == nil {
		*b = uploadBatch{}
	}
	(*b)[store] = append((*b)[store], urlsOf(uploaded)...)
}

func (b uploadBatch) count() int {
	n := 0
	for _, urls := range b {
		n += len(urls)
	}
	return n
}

func urlsOf(uploaded []assets.Uploaded) []string {
	out := make([]string, 0, len(uploaded))
	for _, u := range uploaded {
		out = append(out, u.URL)
	}
	return out
}

// partition splits stored into kept and removed URLs. Removal requests for
// URLs that are not stored are ignored.
func partition(stored, removals []string) (keep, removed []string) {
	drop := make(map[string]bool, len(removals))
	for _, u := range removals {
		drop[strings.TrimSpace(u)] = true
	}
	keep = make([]string, 0, len(stored))
	for _, u := range stored {
		if drop[u] {
			removed = append(removed, u)
			continue
		}
		keep = append(keep, u)
	}
	return keep, removed
}

func filterValue(f FieldSpec, raw string) (any, error) {
	switch f.Kind {
	case KindInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("must be a whole number")
		}
		return n, nil
	case KindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("must be true or false")
		}
		return b, nil
	case KindEnum:
		for _, option := range f.Options {
			if strings.EqualFold(option, raw) {
				return option, nil
			}
		}
		return nil, fmt.Errorf("must be one of: %s", strings.Join(f.Options, ", "))
	default:
		return raw, nil
	}
}

func minFilesMessage(a AttachmentSpec) string {
	if a.MinFiles <= 1 {
		return "At least one file is required for " + a.Label
	}
	return fmt.Sprintf("At least %d files are required for %s", a.MinFiles, a.Label)
}

// stale reports whether current fails the submission's preconditions.
// Postgres keeps microseconds, so that is the precision of an exact match.
func stale(current time.Time, sub Submission) bool {
	if sub.ExpectedUpdatedAt != nil && !current.Truncate(time.Microsecond).Equal(sub.ExpectedUpdatedAt.Truncate(time.Microsecond)) {
		return true
	}
	if sub.UnmodifiedSince != nil && current.Truncate(time.Second).After(sub.UnmodifiedSince.Truncate(time.Second)) {
		return true
	}
	return false
}
