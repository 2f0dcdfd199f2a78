package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/sirico/pkg/domain/interfaces"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Collection names, optionally prefixed by WithCollectionPrefix
const (
	collectionTemplates   = "templates"
	collectionAssessments = "assessments"
	collectionObjectives  = "objectives"
	collectionEntries     = "risk_entries"
	collectionNarratives  = "narratives"
	collectionCounters    = "counters"
)

// maxTransactionWrites is the Firestore limit of writes in one transaction
const maxTransactionWrites = 500

type Firestore struct {
	client     *firestore.Client
	base       *base
	template   *templateRepository
	assessment *assessmentRepository
	objective  *objectiveRepository
	entry      *riskEntryRepository
	narrative  *narrativeRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.base.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID))
	}

	b := &base{client: client}
	f := &Firestore{
		client:     client,
		base:       b,
		template:   &templateRepository{base: b},
		assessment: &assessmentRepository{base: b},
		objective:  &objectiveRepository{base: b},
		entry:      &riskEntryRepository{base: b},
		narrative:  &narrativeRepository{base: b},
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Template() interfaces.TemplateRepository {
	return f.template
}

func (f *Firestore) Assessment() interfaces.AssessmentRepository {
	return f.assessment
}

func (f *Firestore) Objective() interfaces.ObjectiveRepository {
	return f.objective
}

func (f *Firestore) RiskEntry() interfaces.RiskEntryRepository {
	return f.entry
}

func (f *Firestore) Narrative() interfaces.NarrativeRepository {
	return f.narrative
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

// base is shared by all repositories so that one prefix option applies everywhere
type base struct {
	client           *firestore.Client
	collectionPrefix string
}

func (b *base) collection(name string) *firestore.CollectionRef {
	if b.collectionPrefix != "" {
		return b.client.Collection(b.collectionPrefix + "_" + name)
	}
	return b.client.Collection(name)
}

func (b *base) doc(name string, id int64) *firestore.DocumentRef {
	return b.collection(name).Doc(fmt.Sprintf("%d", id))
}

// nextValue increments the named counter inside tx and returns its new value.
// It must be called before any write in the transaction.
func (b *base) nextValue(tx *firestore.Transaction, counter string) (int64, error) {
	counterRef := b.collection(collectionCounters).Doc(counter)

	doc, err := tx.Get(counterRef)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return 1, nil
		}
		return 0, goerr.Wrap(err, "failed to get counter", goerr.V("counter", counter))
	}

	currentValue, err := doc.DataAt("value")
	if err != nil {
		return 0, goerr.Wrap(err, "failed to get counter value", goerr.V("counter", counter))
	}

	value, ok := currentValue.(int64)
	if !ok {
		return 0, goerr.New("counter value is not an integer", goerr.V("counter", counter))
	}
	return value + 1, nil
}

// setCounter writes a value returned by nextValue back in the same transaction
func (b *base) setCounter(tx *firestore.Transaction, counter string, value int64) error {
	counterRef := b.collection(collectionCounters).Doc(counter)
	return tx.Set(counterRef, map[string]interface{}{
		"value": value,
	})
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// entrySequenceCounter names the per-assessment counter used for entry sequence numbers
func entrySequenceCounter(assessmentID int64) string {
	return fmt.Sprintf("entry_seq_%d", assessmentID)
}
