package cache

import "strings"

// ScopedKeyer prefixes every key with a namespace, so datasets of several
// projects can share one sqlite file or redis database without their
// entries meeting. A namespace "billing" yields keys like
// "billing:dataset:v1:...".
type ScopedKeyer struct {
	inner     Keyer
	namespace string
}

// NewScopedKeyer wraps inner (the [DefaultKeyer] when nil) in namespace.
// A trailing ":" separator is added when missing; an empty namespace
// returns inner unchanged.
func NewScopedKeyer(inner Keyer, namespace string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	if namespace == "" {
		return inner
	}
	if !strings.HasSuffix(namespace, ":") {
		namespace += ":"
	}
	return &ScopedKeyer{inner: inner, namespace: namespace}
}

// Namespace returns the prefix including its separator.
func (k *ScopedKeyer) Namespace() string { return k.namespace }

// DatasetKey implements [Keyer].
func (k *ScopedKeyer) DatasetKey(datasetHash string, opts DatasetKeyOpts) string {
	return k.namespace + k.inner.DatasetKey(datasetHash, opts)
}

// LayoutKey implements [Keyer].
func (k *ScopedKeyer) LayoutKey(datasetHash string, opts LayoutKeyOpts) string {
	return k.namespace + k.inner.LayoutKey(datasetHash, opts)
}
