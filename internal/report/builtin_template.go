// Jester Report - Daily Rating Statistics Mailer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jester-report

package report

// BuiltinTemplateName names the default template in logs and errors.
const BuiltinTemplateName = "builtin"

// BuiltinTemplate is used when no template file is configured. It ranges
// over the ranking lists so a short ranking prints fewer lines.
const BuiltinTemplate = `Jester Daily Report
===================
Generated {{.today}} at {{.time}}

Ratings from {{.yesterday}}
---------------------------
Ratings received:        {{.daily_ratings_count}}
Mean rating:             {{.mean_daily_rating}}
Median rating:           {{.median_daily_rating}}

All time
--------
Users:                   {{.total_users}}
Ratings:                 {{.total_ratings}}
Mean rating:             {{.mean_rating}}
Median rating:           {{.median_rating}}
Lowest rating:           {{.min_rating}}
Highest rating:          {{.max_rating}}

Jokes rated per user
--------------------
Mean:                    {{.mean_number_of_jokes_rated}}
Median:                  {{.median_number_of_jokes_rated}}
Fewest:                  {{.min_number_of_jokes_rated}}
Most:                    {{.max_number_of_jokes_rated}}

Top rated jokes
---------------
{{range .top_rated_jokes}}{{.}}
{{else}}No jokes have been rated yet.
{{end}}
Most divisive jokes
-------------------
{{range .top_variance_jokes}}{{.}}
{{else}}No jokes have been rated yet.
{{end}}`

// Builtin parses BuiltinTemplate.
func (te *TemplateEngine) Builtin() (*Template, error) {
	return te.Parse(BuiltinTemplateName, BuiltinTemplate)
}

// Load parses the template at path, or the built-in template when path is empty.
func (te *TemplateEngine) Load(path string) (*Template, error) {
	if path == "" {
		return te.Builtin()
	}
	return te.ParseFile(path)
}
