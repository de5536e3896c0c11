// Package constants provides shared constants used throughout the clubmerge codebase.
// This includes batch limits, file permissions, output naming and the fixed
// regional values stamped onto every merged profile.
package constants

import "time"

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants
const (
	// MaxProfilesPerFile is the largest number of merged profiles written to one output file
	MaxProfilesPerFile = 180000

	// DefaultWorkers is the default number of identities merged concurrently
	DefaultWorkers = 8

	// WriteBufferSize is the default buffer size for output files
	WriteBufferSize = 1 << 16
)

// Child matching constants
const (
	// DaysPerMonth is the month length used by the child collision window
	DaysPerMonth = 30

	// ChildCollisionMonths is the width of the child collision window in months
	ChildCollisionMonths = 9

	// ChildCollisionWindow is the distance under which two child dates are the same child
	ChildCollisionWindow = ChildCollisionMonths * DaysPerMonth * 24 * time.Hour
)

// Regional overrides applied to every merged profile
const (
	DefaultDivision        = "SN"
	DefaultRegion          = "EMEA"
	DefaultCountryDivision = "DE"
)

// Consent defaults
const (
	// DefaultDocDate is the document date used when a consolidated consent has no seed value
	DefaultDocDate = "2020-09-21T00:00:00Z"

	// TermsOfUse is the terms entry copied to TermsOfUseV2 after a merge
	TermsOfUse = "TermsOfUse"

	// TermsOfUseV2 is the derived terms entry on merged profiles
	TermsOfUseV2 = "TermsOfUse_v2"
)

// Output naming
const (
	// MergedFilePrefix prefixes every merged profile batch file
	MergedFilePrefix = "user-DE-merged_"

	// TraceFileName is the CSV file mapping original records to merged profiles
	TraceFileName = "oldData_merged_profile.csv"

	// DuplicatesFileName is the base name of the duplicate-email report
	DuplicatesFileName = "common_emails"
)

// Format constants
const (
	// TimeFormatRecord is the timestamp layout written into merged records
	TimeFormatRecord = "2006-01-02T15:04:05.000Z07:00"

	// TimeFormatDate is the date-only layout accepted on input
	TimeFormatDate = "2006-01-02"
)

// Path and environment constants
const (
	// EnvPrefix prefixes every environment variable read by the CLI
	EnvPrefix = "CLUBMERGE"

	// DefaultConfigFile is the config file looked up in the home directory
	DefaultConfigFile = ".clubmerge.yaml"
)
