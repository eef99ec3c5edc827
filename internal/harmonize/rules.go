package harmonize

// Allowlist is the fixed output schema, in order. Every harmonized table
// carries exactly these columns regardless of survey year.
var Allowlist = []string{
	// Identifiers
	"year",     // reference year
	"pumfid",   // household identifier
	"personid", // person identifier
	"fweight",  // final weight
	// Demography
	"sex",    // sex
	"agegp",  // age group as of Dec 31 of the reference year
	"marst",  // marital status
	"immst",  // landed immigrant status
	"yrimmg", // years since immigrating to Canada
	// Geography
	"prov",   // province
	"uszgap", // adjusted size of area of residence
	// Income
	"ttinc", // total income before taxes
	"atinc", // after-tax income
	"mtinc", // market income
	"gtr",   // government transfers, federal and provincial
	// Household
	"hhsize", // number of household members
	"hhcomp", // household composition
	// Housing
	"dwltyp", // type of dwelling
	"dwtenr", // ownership of dwelling
	"repa",   // condition of dwelling
	"suit",   // dwelling suitable per National Occupancy Standards
	"mortg",  // mortgage on dwelling
	"mortgm", // monthly mortgage payment, excluding property taxes
	"condmp", // monthly condominium fee
	"rentm",  // monthly rent paid for the household
}

// Renames maps the variable names introduced with the 2018 release back to
// the names used in the 2012 to 2017 releases. Applied before column
// selection, so downstream code only sees canonical names.
var Renames = map[string]string{
	"marstp":  "marst",
	"immstp":  "immst",
	"yrimmgp": "yrimmg",
}

// MissingCodes maps a column to the code marking its value as not stated
// or not applicable. Rows carrying one of these codes are dropped.
var MissingCodes = map[string]string{
	"marst":  "99",
	"immst":  "9",
	"yrimmg": "9",
	"dwltyp": "9",
	"dwtenr": "9",
	"suit":   "9",
}

// Age group categories were recut for the 2018 release, shifting the code
// range by one.
var (
	ageGroups2012to2017 = map[string]bool{
		"07": true, "08": true, "09": true, "10": true, "11": true,
		"12": true, "13": true, "14": true, "15": true,
	}
	ageGroupsFrom2018 = map[string]bool{
		"06": true, "07": true, "08": true, "09": true, "10": true,
		"11": true, "12": true, "13": true, "14": true,
	}
)

// ValidAgeGroups returns the set of age group codes retained for the given
// reference year. Any year outside 2012 to 2017, including future years,
// uses the post-2018 coding.
func ValidAgeGroups(year int) map[string]bool {
	if year >= 2012 && year <= 2017 {
		return ageGroups2012to2017
	}
	return ageGroupsFrom2018
}
