// CLAUDE:SUMMARY Registered import sources: US census surnames, UK Companies House, INSEE communes.
package importer

import "github.com/hazyhaar/touchstone-normalize/pkg/dict"

func init() {
	Register(NewCSVSource(SourceSpec{
		AdapterID:    "census-surnames-us",
		Dict:         "surnames-us",
		Desc:         "US Census Bureau surnames (2010 census)",
		URL:          "https://www2.census.gov/topics/genealogy/2010surnames/names.zip",
		LicenseName:  "Public Domain",
		Jurisdiction: "us",
		EntityType:   "surname",
		SourceName:   "US Census Bureau 2010",
		Version:      "2010",
		Zipped:       true,
		Key:          Column{Name: "name", Headers: []string{"name"}},
		Metadata: []Column{
			{Name: "rank", Headers: []string{"rank"}},
			{Name: "frequency", Headers: []string{"count"}},
		},
		Normalize: dict.ModeName,
	}))

	Register(NewCSVSource(SourceSpec{
		AdapterID:    "companies-house-uk",
		Dict:         "companies-uk",
		Desc:         "Companies House UK (active companies)",
		URL:          "https://download.companieshouse.gov.uk/BasicCompanyDataAsOneFile-2024-01-01.zip",
		LicenseName:  "OGL v3",
		Jurisdiction: "uk",
		EntityType:   "company",
		SourceName:   "Companies House",
		Version:      "2024-01",
		Zipped:       true,
		Key:          Column{Name: "name", Headers: []string{"CompanyName"}},
		Metadata: []Column{
			{Name: "company_number", Headers: []string{"CompanyNumber"}},
			{Name: "postcode", Headers: []string{"RegAddress.PostCode"}},
		},
		Filter: &Filter{
			Column: Column{Name: "status", Headers: []string{"CompanyStatus"}},
			Allow:  []string{"Active"},
		},
		Normalize: dict.ModeName,
	}))

	Register(NewCSVSource(SourceSpec{
		AdapterID:    "insee-communes-fr",
		Dict:         "communes-fr",
		Desc:         "INSEE COG communes de France",
		URL:          "https://www.insee.fr/fr/statistiques/fichier/7766585/v_commune_2024.csv",
		LicenseName:  "CC0",
		Jurisdiction: "fr",
		EntityType:   "city",
		SourceName:   "INSEE COG",
		Version:      "2024",
		Key:          Column{Name: "name", Headers: []string{"LIBELLE", "NCCENR", "NCC"}},
		Metadata: []Column{
			{Name: "departement", Headers: []string{"DEP"}},
			{Name: "code_commune", Headers: []string{"COM"}},
		},
		Filter: &Filter{
			Column: Column{Name: "type", Headers: []string{"TYPECOM"}},
			Allow:  []string{"COM"},
		},
		Normalize: dict.ModeAddressLatin,
	}))
}
