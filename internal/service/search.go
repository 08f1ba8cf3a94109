package service

import (
	"context"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"obradoc/internal/auth"
	"obradoc/internal/config"
	"obradoc/internal/model"
	"obradoc/internal/repository"
	"obradoc/internal/status"
	"obradoc/pkg/timer"
	"obradoc/pkg/util"
)

// SearchService answers document searches: an org-scoped fetch with
// set-membership and date filters pushed to the database, then in-memory
// text matching over the descriptive fields.
type SearchService struct {
	docs    repository.IDocumentRepository
	workers repository.IWorkerRepository
	docsvc  *DocumentService
}

func NewSearchService(docs repository.IDocumentRepository, workers repository.IWorkerRepository, docsvc *DocumentService) *SearchService {
	return &SearchService{docs: docs, workers: workers, docsvc: docsvc}
}

// Search runs a document search for the caller. Results are ordered
// expired-first, then most recently uploaded.
func (s *SearchService) Search(ctx context.Context, session *auth.Session, query model.SearchQuery) (*model.SearchResult, error) {
	defer timer.Track("Document Search")()

	if session == nil || session.OrgID.IsZero() {
		return nil, ErrNotAuthenticated
	}

	// Status is deliberately not pushed down: the stored value may be stale,
	// so status filtering happens in memory after re-derivation.
	filter := repository.DocumentFilter{}
	if f := query.Filters; f != nil {
		filter.Types = f.Types
		filter.Category = f.Category
		filter.Tags = f.Tags
		if f.DateRange != nil {
			filter.Start = f.DateRange.Start
			filter.End = f.DateRange.End
		}
	}

	// Project-scoped roles only see documents of workers in their projects.
	if session.ScopedToProjects() {
		scoped, err := s.workers.FindByProjects(ctx, session.ProjectIDs)
		if err != nil {
			return nil, backendError("failed to fetch documents", err)
		}
		if len(scoped) == 0 {
			return &model.SearchResult{Total: 0, Items: []*model.Document{}}, nil
		}
		for _, w := range scoped {
			filter.WorkerIDs = append(filter.WorkerIDs, w.ID)
		}
	}

	docs, err := s.docs.FindByOrg(ctx, session.OrgID, filter)
	if err != nil {
		return nil, backendError("failed to fetch documents", err)
	}

	workerNames, err := s.workerNames(ctx, session.OrgID)
	if err != nil {
		// Names only enrich results; searches still work without them.
		workerNames = map[primitive.ObjectID]string{}
	}

	for _, doc := range docs {
		doc.WorkerName = workerNames[doc.WorkerID]
		s.docsvc.Refresh(ctx, session, doc)
	}

	if f := query.Filters; f != nil && len(f.Statuses) > 0 {
		docs = filterByStatus(docs, f.Statuses)
	}

	if text := strings.TrimSpace(query.Text); text != "" {
		docs = applyTextFilter(docs, text)
	}

	sortResults(docs)

	total := len(docs)
	docs = paginate(docs, query.Page, query.PageSize)
	return &model.SearchResult{Total: total, Items: docs}, nil
}

func (s *SearchService) workerNames(ctx context.Context, orgID primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	workers, err := s.workers.FindByOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	names := make(map[primitive.ObjectID]string, len(workers))
	for _, w := range workers {
		names[w.ID] = w.Name
	}
	return names, nil
}

func filterByStatus(docs []*model.Document, statuses []string) []*model.Document {
	keep := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		keep[s] = true
	}
	out := docs[:0]
	for _, doc := range docs {
		if keep[doc.Status] {
			out = append(out, doc)
		}
	}
	return out
}

// applyTextFilter keeps documents whose searchable text contains the query,
// ignoring case and diacritics.
func applyTextFilter(docs []*model.Document, text string) []*model.Document {
	needle := util.NormalizeSearchText(text)
	out := docs[:0]
	for _, doc := range docs {
		if strings.Contains(searchableText(doc), needle) {
			out = append(out, doc)
		}
	}
	return out
}

func searchableText(doc *model.Document) string {
	parts := []string{
		doc.Name,
		doc.TypeLabel(),
		doc.WorkerName,
		doc.Metadata.Description,
		doc.Metadata.Category,
	}
	parts = append(parts, doc.Metadata.Keywords...)
	parts = append(parts, doc.Metadata.Tags...)
	return util.NormalizeSearchText(strings.Join(parts, " "))
}

// sortResults orders expired documents first, then most recent uploads.
func sortResults(docs []*model.Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		iExpired := docs[i].Status == string(status.Expired)
		jExpired := docs[j].Status == string(status.Expired)
		if iExpired != jExpired {
			return iExpired
		}
		return docs[i].UploadedAt.After(docs[j].UploadedAt)
	})
}

func paginate(docs []*model.Document, page, pageSize int) []*model.Document {
	if pageSize <= 0 {
		pageSize = config.DefaultPageSize
	}
	if pageSize > config.MaxPageSize {
		pageSize = config.MaxPageSize
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(docs) {
		return []*model.Document{}
	}
	end := start + pageSize
	if end > len(docs) {
		end = len(docs)
	}
	return docs[start:end]
}
