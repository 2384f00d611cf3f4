// Package runner applies a [normalizer.Normalizer] to every fixture file of
// a [Layout] and aggregates the outcome into a [Summary].
//
// The default layout enumerates ACR01/ACR01.json through ACR34/ACR34.json
// below a base directory. Candidates that do not exist are skipped. One
// progress line is written per replacement:
//
//	  ACR03.json: Step 3 - /citizen-details/:nino/designatory-details → CD01
//	  ACR03.json: Dependency 'enrolment-lookup' - /enrolment-store-proxy/enrolment-store/groups → ES3
//
// Files are processed one at a time. A file that fails is recorded and the
// run continues, unless [Config.FailFast] is set.
package runner
