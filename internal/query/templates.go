package query

import (
	"strings"
	"text/template"

	"propensity/pkg/errors"
)

var (
	transactionDatesTmpl = template.Must(template.New("transaction_dates").Parse(
		"CREATE TABLE IF NOT EXISTS `{{.Target}}` AS\n" +
			"SELECT fullVisitorId,\n" +
			"       MIN(PARSE_DATE('%Y%m%d', date)) AS transaction_date\n" +
			"FROM `{{.Source}}`\n" +
			"WHERE _TABLE_SUFFIX BETWEEN '{{.Start}}' AND '{{.End}}'\n" +
			"  AND totals.transactions >= 1\n" +
			"GROUP BY fullVisitorId;\n"))

	aggregatesTmpl = template.Must(template.New("aggregates").Parse(
		"CREATE TABLE IF NOT EXISTS `{{.Target}}` AS\n" +
			"SELECT ga.fullVisitorId AS visitor_id,\n" +
			"       MIN(ref.transaction_date) AS transaction_date,\n" +
			"       {{.DayDiff}} AS day_diff,\n" +
			"{{range .Metrics}}" +
			"       {{.Expr}} AS {{.Name}}{{if not .Last}},{{end}}\n" +
			"{{end}}" +
			"FROM `{{.Source}}` AS ga\n" +
			"{{if .Converted}}" +
			"JOIN `{{.Dates}}` AS ref\n" +
			"  ON ga.fullVisitorId = ref.fullVisitorId\n" +
			"{{else}}" +
			"CROSS JOIN (\n" +
			"    SELECT PARSE_DATE('%Y%m%d', candidate) AS transaction_date\n" +
			"    FROM (\n" +
			"        SELECT DISTINCT date AS candidate\n" +
			"        FROM `{{.Source}}`\n" +
			"        WHERE _TABLE_SUFFIX BETWEEN '{{.Start}}' AND '{{.End}}'\n" +
			"    )\n" +
			"    ORDER BY FARM_FINGERPRINT(candidate)\n" +
			"    LIMIT {{.CandidateDates}}\n" +
			") AS ref\n" +
			"LEFT JOIN `{{.Dates}}` AS converted\n" +
			"  ON ga.fullVisitorId = converted.fullVisitorId\n" +
			"{{end}}" +
			"WHERE _TABLE_SUFFIX BETWEEN '{{.Start}}' AND '{{.End}}'\n" +
			"{{if not .Converted}}" +
			"  AND converted.fullVisitorId IS NULL\n" +
			"{{end}}" +
			"  AND {{.DayDiff}} >= 0\n" +
			"  AND {{.DayDiff}} < {{.Window}}\n" +
			"GROUP BY visitor_id, day_diff;\n"))

	pivotTmpl = template.Must(template.New("pivot").Parse(
		"CREATE TABLE IF NOT EXISTS `{{.Target}}` AS\n" +
			"SELECT visitor_id,\n" +
			"{{range .Columns}}" +
			"       MAX(CASE WHEN {{.Predicate}} THEN {{.Metric}} ELSE NULL END) AS {{.Name}}{{if not .Last}},{{end}}\n" +
			"{{end}}" +
			"FROM `{{.Source}}`\n" +
			"GROUP BY visitor_id;\n"))

	labeledTmpl = template.Must(template.New("labeled").Parse(
		"CREATE TABLE IF NOT EXISTS `{{.Target}}` AS\n" +
			"WITH labeled AS (\n" +
			"    SELECT *, 1 AS label\n" +
			"    FROM `{{.Positive}}`\n" +
			"    UNION ALL\n" +
			"    SELECT *, 0 AS label\n" +
			"    FROM (\n" +
			"        SELECT *\n" +
			"        FROM `{{.Negative}}`\n" +
			"        ORDER BY RAND()\n" +
			"        LIMIT {{.Limit}}\n" +
			"    )\n" +
			")\n" +
			"SELECT *\n" +
			"FROM labeled;\n"))
)

type metricData struct {
	Name string
	Expr string
	Last bool
}

type columnData struct {
	FeatureColumn
	Last bool
}

func render(tmpl *template.Template, data any) (string, error) {
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeTemplate, "Failed to render query template").
			WithContext("template", tmpl.Name())
	}
	return b.String(), nil
}
