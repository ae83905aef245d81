package domain

// KeyPrefix namespaces every key talentdex writes to a shared Valkey/Redis instance.
const KeyPrefix = "talentdex:"

// NamespaceSuffix is appended to a tenant id to form its resume namespace.
const NamespaceSuffix = "_Resumes_NS"

// Namespace returns the resume namespace of a tenant.
func Namespace(tenant string) string {
	return tenant + NamespaceSuffix
}
