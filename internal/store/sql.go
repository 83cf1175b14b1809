package store

import (
	"fmt"
	"strings"

	"github.com/law-makers/bizscrape/pkg/models"
)

// fieldColumns lists the text columns in models.Record field order
var fieldColumns = func() []string {
	fields := (&models.Record{}).Fields()
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.Name
	}
	return cols
}()

// searchExpr concatenates the searchable columns for a LIKE match
const searchExpr = "LOWER(company_name || ' ' || business_type || ' ' || industry || ' ' || location || ' ' || description)"

// fieldPointers returns scan targets in fieldColumns order
func fieldPointers(r *models.Record) []any {
	return []any{
		&r.URL,
		&r.CompanyName,
		&r.BusinessType,
		&r.Industry,
		&r.Description,
		&r.Location,
		&r.FoundedYear,
		&r.ContactInfo,
		&r.SocialMedia,
		&r.Content,
		&r.CompanySize,
		&r.EstimatedRevenue,
		&r.EmployeeCount,
		&r.KeyServices,
		&r.TargetMarket,
		&r.Technologies,
		&r.Summary,
		&r.BusinessModel,
		&r.CompetitiveAdvantages,
		&r.KeyExecutives,
		&r.AwardsRecognition,
		&r.RecentNews,
		&r.ProductCategories,
		&r.ClientTestimonials,
		&r.Partnerships,
		&r.Certifications,
		&r.MarketFocus,
		&r.BusinessMaturity,
	}
}

// fieldValues returns the record's column values in fieldColumns order
func fieldValues(r *models.Record) []any {
	fields := r.Fields()
	vals := make([]any, len(fields))
	for i, f := range fields {
		vals[i] = f.Value
	}
	return vals
}

// dialect holds the SQL differences between the backends
type dialect struct {
	placeholder   func(n int) string
	timestampType string
}

var (
	sqliteDialect = dialect{
		placeholder:   func(int) string { return "?" },
		timestampType: "INTEGER",
	}
	postgresDialect = dialect{
		placeholder:   func(n int) string { return fmt.Sprintf("$%d", n) },
		timestampType: "TIMESTAMPTZ",
	}
)

func (d dialect) createTable() string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS business_records (\n\tid TEXT PRIMARY KEY")
	for _, c := range fieldColumns {
		fmt.Fprintf(&b, ",\n\t%s TEXT NOT NULL DEFAULT ''", c)
	}
	fmt.Fprintf(&b, ",\n\tscraped_at %s NOT NULL\n)", d.timestampType)
	return b.String()
}

func (d dialect) createIndexes() []string {
	return []string{
		"CREATE INDEX IF NOT EXISTS idx_business_records_url ON business_records (url)",
		"CREATE INDEX IF NOT EXISTS idx_business_records_scraped_at ON business_records (scraped_at)",
	}
}

func (d dialect) insert() string {
	cols := append([]string{"id"}, fieldColumns...)
	cols = append(cols, "scraped_at")
	marks := make([]string, len(cols))
	for i := range cols {
		marks[i] = d.placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO business_records (%s) VALUES (%s)",
		strings.Join(cols, ", "), strings.Join(marks, ", "))
}

func selectColumns() string {
	return "id, " + strings.Join(fieldColumns, ", ") + ", scraped_at"
}

// where returns the search clause and its arguments
func (d dialect) where(q Query) (string, []any) {
	if q.Search == "" {
		return "", nil
	}
	return " WHERE " + searchExpr + " LIKE " + d.placeholder(1), []any{"%" + strings.ToLower(q.Search) + "%"}
}

func orderBy(key string) string {
	switch key {
	case SortCompanyName, SortBusinessType, SortIndustry:
		return " ORDER BY " + key + " ASC, id ASC"
	case SortFoundedYear:
		return " ORDER BY founded_year DESC, id ASC"
	}
	return " ORDER BY scraped_at DESC, id ASC"
}

// list builds the page query; its arguments follow the search arguments
func (d dialect) list(q Query) (string, []any) {
	where, args := d.where(q)
	n := len(args)
	query := "SELECT " + selectColumns() + " FROM business_records" + where + orderBy(q.SortBy) +
		" LIMIT " + d.placeholder(n+1) + " OFFSET " + d.placeholder(n+2)
	return query, append(args, q.PerPage, q.offset())
}

func (d dialect) count(q Query) (string, []any) {
	where, args := d.where(q)
	return "SELECT COUNT(*) FROM business_records" + where, args
}
