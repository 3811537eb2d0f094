// File path: internal/mapping/alias.go
package mapping

import "strings"

// AliasResolver reports alternative names a template field may be known by in
// client data. The default table covers common document-domain concepts;
// deployments can substitute their own resolver without touching the matcher.
type AliasResolver interface {
	Candidates(name string) []string
}

// aliasTable resolves aliases through fixed synonym groups keyed by canonical
// field name.
type aliasTable struct {
	groups map[string][]string
}

// DefaultAliases returns the built-in synonym table for party names, contact
// fields, dates, and addresses seen across estate-planning and business
// documents.
func DefaultAliases() AliasResolver {
	groups := [][]string{
		{"fullName", "legalFullName", "clientName", "name", "grantorName", "principalName"},
		{"trusteeName", "successorTrusteeName", "successorCoTrusteeName", "coTrusteeName", "trustee"},
		{"spouseName", "spouseFullName", "maritalPartnerName"},
		{"beneficiaryName", "primaryBeneficiary", "beneficiary"},
		{"agentName", "attorneyInFact", "powerOfAttorneyAgent", "executorName", "personalRepresentative"},
		{"witnessName", "witness1Name", "witness2Name"},
		{"email", "emailAddress", "contactEmail", "clientEmail"},
		{"phone", "phoneNumber", "telephone", "contactPhone", "cellPhone", "mobileNumber"},
		{"address", "streetAddress", "mailingAddress", "homeAddress", "residenceAddress", "propertyAddress"},
		{"city", "cityName", "municipality"},
		{"state", "stateName", "stateOfResidence", "province"},
		{"zip", "zipCode", "postalCode"},
		{"date", "executionDate", "signingDate", "effectiveDate", "documentDate", "todaysDate"},
		{"dateOfBirth", "birthDate", "dob"},
		{"county", "countyName", "countyOfResidence"},
		{"businessName", "companyName", "entityName", "corporationName", "llcName"},
		{"trustName", "trustTitle", "nameOfTrust"},
	}
	table := &aliasTable{groups: make(map[string][]string)}
	for _, group := range groups {
		for _, member := range group {
			key := canonicalKey(member)
			table.groups[key] = append(table.groups[key], group...)
		}
	}
	return table
}

// Candidates returns every member of the synonym groups containing name,
// excluding the name itself. Nil when the name belongs to no group.
func (t *aliasTable) Candidates(name string) []string {
	members, ok := t.groups[canonicalKey(name)]
	if !ok {
		return nil
	}
	self := canonicalKey(name)
	out := make([]string, 0, len(members))
	for _, member := range members {
		if canonicalKey(member) == self {
			continue
		}
		out = append(out, member)
	}
	return out
}

// canonicalKey folds a field name to lowercase alphanumerics so that
// "trustee_name", "Trustee Name", and "trusteeName" collide.
func canonicalKey(name string) string {
	var builder strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}
