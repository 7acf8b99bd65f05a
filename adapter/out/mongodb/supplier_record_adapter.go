package mongodb

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/cockroachdb/apd/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"supplier_server/core/domain"
)

const collectionSuppliers = "lieferanten"

// SupplierAdapter implements out.SupplierRepository on a MongoDB collection.
type SupplierAdapter struct {
	collection *mongo.Collection
}

// NewSupplierAdapter creates the supplier collection adapter.
func NewSupplierAdapter(db *mongo.Database) *SupplierAdapter {
	return &SupplierAdapter{collection: db.Collection(collectionSuppliers)}
}

// EnsureIndexes creates the indexes the service relies on: unique email,
// unique sparse username, and the lastname search index.
func (a *SupplierAdapter) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{
			Keys: bson.D{{Key: "nachname", Value: 1}},
		},
	}

	_, err := a.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// =============================================================================
// Document Model
// =============================================================================

type supplierDocument struct {
	ID            string           `bson:"_id"`
	Version       int              `bson:"version"`
	LastName      string           `bson:"nachname"`
	Email         string           `bson:"email"`
	Category      int              `bson:"kategorie"`
	Newsletter    bool             `bson:"newsletter"`
	Birthdate     *time.Time       `bson:"geburtsdatum,omitempty"`
	Revenue       *revenueDocument `bson:"umsatz,omitempty"`
	Terms         *termsDocument   `bson:"kondition,omitempty"`
	Homepage      string           `bson:"homepage,omitempty"`
	Gender        string           `bson:"geschlecht,omitempty"`
	DeliveryTime  string           `bson:"lieferzeit,omitempty"`
	MaritalStatus string           `bson:"familienstand,omitempty"`
	Interests     []string         `bson:"interessen,omitempty"`
	Address       addressDocument  `bson:"adresse"`
	Username      string           `bson:"username,omitempty"`
	CreatedAt     time.Time        `bson:"erzeugt"`
	UpdatedAt     time.Time        `bson:"aktualisiert"`
}

type revenueDocument struct {
	Amount   primitive.Decimal128 `bson:"betrag"`
	Currency string               `bson:"waehrung"`
}

type termsDocument struct {
	Discount primitive.Decimal128 `bson:"skonto"`
	Rebate   primitive.Decimal128 `bson:"rabatt"`
	Bonus    primitive.Decimal128 `bson:"bonus"`
	Currency string               `bson:"waehrung"`
}

type addressDocument struct {
	PostalCode string `bson:"plz"`
	City       string `bson:"ort"`
}

func toDocument(s *domain.Supplier) (*supplierDocument, error) {
	doc := &supplierDocument{
		ID:            s.ID,
		Version:       s.Version,
		LastName:      s.LastName,
		Email:         s.Email,
		Category:      s.Category,
		Newsletter:    s.Newsletter,
		Homepage:      s.Homepage,
		Gender:        string(s.Gender),
		DeliveryTime:  string(s.DeliveryTime),
		MaritalStatus: string(s.MaritalStatus),
		Address:       addressDocument{PostalCode: s.Address.PostalCode, City: s.Address.City},
		Username:      s.Username,
	}

	if s.Birthdate != nil {
		t := s.Birthdate.Time
		doc.Birthdate = &t
	}
	for _, interest := range s.Interests {
		doc.Interests = append(doc.Interests, string(interest))
	}

	if s.Revenue != nil {
		amount, err := toDecimal128(s.Revenue.Amount)
		if err != nil {
			return nil, err
		}
		doc.Revenue = &revenueDocument{Amount: amount, Currency: s.Revenue.Currency}
	}
	if s.Terms != nil {
		discount, err := toDecimal128(s.Terms.Discount)
		if err != nil {
			return nil, err
		}
		rebate, err := toDecimal128(s.Terms.Rebate)
		if err != nil {
			return nil, err
		}
		bonus, err := toDecimal128(s.Terms.Bonus)
		if err != nil {
			return nil, err
		}
		doc.Terms = &termsDocument{Discount: discount, Rebate: rebate, Bonus: bonus, Currency: s.Terms.Currency}
	}

	return doc, nil
}

func (doc *supplierDocument) toEntity() (*domain.Supplier, error) {
	s := &domain.Supplier{
		ID:            doc.ID,
		Version:       doc.Version,
		LastName:      doc.LastName,
		Email:         doc.Email,
		Category:      doc.Category,
		Newsletter:    doc.Newsletter,
		Homepage:      doc.Homepage,
		Gender:        domain.Gender(doc.Gender),
		DeliveryTime:  domain.DeliveryTime(doc.DeliveryTime),
		MaritalStatus: domain.MaritalStatus(doc.MaritalStatus),
		Address:       domain.Address{PostalCode: doc.Address.PostalCode, City: doc.Address.City},
		Username:      doc.Username,
	}

	if doc.Birthdate != nil {
		s.Birthdate = &domain.Date{Time: *doc.Birthdate}
	}
	for _, interest := range doc.Interests {
		s.Interests = append(s.Interests, domain.Interest(interest))
	}

	if doc.Revenue != nil {
		amount, err := fromDecimal128(doc.Revenue.Amount)
		if err != nil {
			return nil, err
		}
		s.Revenue = &domain.Revenue{Amount: amount, Currency: doc.Revenue.Currency}
	}
	if doc.Terms != nil {
		discount, err := fromDecimal128(doc.Terms.Discount)
		if err != nil {
			return nil, err
		}
		rebate, err := fromDecimal128(doc.Terms.Rebate)
		if err != nil {
			return nil, err
		}
		bonus, err := fromDecimal128(doc.Terms.Bonus)
		if err != nil {
			return nil, err
		}
		s.Terms = &domain.Terms{Discount: discount, Rebate: rebate, Bonus: bonus, Currency: doc.Terms.Currency}
	}

	return s, nil
}

func toDecimal128(d *apd.Decimal) (primitive.Decimal128, error) {
	if d == nil {
		return primitive.Decimal128{}, nil
	}
	dec, err := primitive.ParseDecimal128(d.Text('f'))
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("invalid decimal %q: %w", d.String(), err)
	}
	return dec, nil
}

func fromDecimal128(dec primitive.Decimal128) (*apd.Decimal, error) {
	d, _, err := apd.NewFromString(dec.String())
	if err != nil {
		return nil, fmt.Errorf("invalid stored decimal %q: %w", dec.String(), err)
	}
	return d, nil
}

// =============================================================================
// Queries
// =============================================================================

// FindByID returns the supplier with the given id, or (nil, nil).
func (a *SupplierAdapter) FindByID(ctx context.Context, id string) (*domain.Supplier, error) {
	return a.findOne(ctx, bson.M{"_id": id})
}

// FindByEmail matches the email case-insensitively.
func (a *SupplierAdapter) FindByEmail(ctx context.Context, email string) (*domain.Supplier, error) {
	filter := bson.M{"email": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(email) + "$", Options: "i"}}
	return a.findOne(ctx, filter)
}

func (a *SupplierAdapter) findOne(ctx context.Context, filter bson.M) (*domain.Supplier, error) {
	var doc supplierDocument
	err := a.collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find supplier: %w", err)
	}
	return doc.toEntity()
}

// FindAll returns every supplier, in no particular order.
func (a *SupplierAdapter) FindAll(ctx context.Context) ([]domain.Supplier, error) {
	return a.findMany(ctx, bson.M{})
}

// FindByCriteria executes the conjunction of the given criteria.
func (a *SupplierAdapter) FindByCriteria(ctx context.Context, criteria []domain.Criterion) ([]domain.Supplier, error) {
	filter, err := toFilter(criteria)
	if err != nil {
		return nil, err
	}
	return a.findMany(ctx, filter)
}

func (a *SupplierAdapter) findMany(ctx context.Context, filter bson.M) ([]domain.Supplier, error) {
	cursor, err := a.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query suppliers: %w", err)
	}
	defer cursor.Close(ctx)

	var suppliers []domain.Supplier
	for cursor.Next(ctx) {
		var doc supplierDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode supplier: %w", err)
		}
		entity, err := doc.toEntity()
		if err != nil {
			return nil, err
		}
		suppliers = append(suppliers, *entity)
	}
	return suppliers, cursor.Err()
}

// =============================================================================
// Writes
// =============================================================================

// Insert persists a new supplier document with version 0.
func (a *SupplierAdapter) Insert(ctx context.Context, supplier *domain.Supplier) error {
	doc, err := toDocument(supplier)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	doc.Version = 0
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := a.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert supplier: %w", err)
	}
	return nil
}

// Replace conditionally overwrites the document: the filter matches on both
// id and the expected version, so a concurrent writer that bumped the version
// first makes this write a no-op (reported as false).
func (a *SupplierAdapter) Replace(ctx context.Context, supplier *domain.Supplier, expectedVersion int) (bool, error) {
	doc, err := toDocument(supplier)
	if err != nil {
		return false, err
	}
	doc.Version = expectedVersion + 1
	doc.UpdatedAt = time.Now().UTC()

	filter := bson.M{"_id": supplier.ID, "version": expectedVersion}
	update := bson.M{
		"$set": bson.M{
			"version":       doc.Version,
			"nachname":      doc.LastName,
			"email":         doc.Email,
			"kategorie":     doc.Category,
			"newsletter":    doc.Newsletter,
			"geburtsdatum":  doc.Birthdate,
			"umsatz":        doc.Revenue,
			"kondition":     doc.Terms,
			"homepage":      doc.Homepage,
			"geschlecht":    doc.Gender,
			"lieferzeit":    doc.DeliveryTime,
			"familienstand": doc.MaritalStatus,
			"interessen":    doc.Interests,
			"adresse":       doc.Address,
			"aktualisiert":  doc.UpdatedAt,
		},
	}

	result, err := a.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to replace supplier: %w", err)
	}
	return result.MatchedCount == 1, nil
}

// DeleteByID removes the document with the given id.
func (a *SupplierAdapter) DeleteByID(ctx context.Context, id string) (bool, error) {
	result, err := a.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("failed to delete supplier: %w", err)
	}
	return result.DeletedCount > 0, nil
}

// DeleteByEmail removes all documents with the given email.
func (a *SupplierAdapter) DeleteByEmail(ctx context.Context, email string) (int64, error) {
	filter := bson.M{"email": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(email) + "$", Options: "i"}}
	result, err := a.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to delete supplier by email: %w", err)
	}
	return result.DeletedCount, nil
}

// =============================================================================
// Values
// =============================================================================

// ExistsByID reports whether a document with the id exists.
func (a *SupplierAdapter) ExistsByID(ctx context.Context, id string) (bool, error) {
	count, err := a.collection.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check supplier existence: %w", err)
	}
	return count > 0, nil
}

// Count returns the number of supplier documents.
func (a *SupplierAdapter) Count(ctx context.Context) (int64, error) {
	count, err := a.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count suppliers: %w", err)
	}
	return count, nil
}

// LastnamesByPrefix returns the distinct lastnames starting with prefix,
// case-insensitively.
func (a *SupplierAdapter) LastnamesByPrefix(ctx context.Context, prefix string) ([]string, error) {
	filter := bson.M{"nachname": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(prefix), Options: "i"}}
	values, err := a.collection.Distinct(ctx, "nachname", filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query lastnames: %w", err)
	}

	names := make([]string, 0, len(values))
	for _, v := range values {
		if name, ok := v.(string); ok {
			names = append(names, name)
		}
	}
	return names, nil
}

// EmailsByPrefix returns the emails starting with prefix, case-insensitively.
func (a *SupplierAdapter) EmailsByPrefix(ctx context.Context, prefix string) ([]string, error) {
	filter := bson.M{"email": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(prefix), Options: "i"}}
	values, err := a.collection.Distinct(ctx, "email", filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query emails: %w", err)
	}

	emails := make([]string, 0, len(values))
	for _, v := range values {
		if email, ok := v.(string); ok {
			emails = append(emails, email)
		}
	}
	return emails, nil
}
