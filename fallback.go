package strptime

// FallbackResolver resolves fallback locale chains
type FallbackResolver interface {
	Resolve(locale string) []string
}

// StaticFallbackResolver holds explicit fallback chains. Locales without an
// entry are handed to the base resolver or, without one, fall back along
// their parent tags, so en-US resolves to en.
type StaticFallbackResolver struct {
	chains map[string][]string
	base   FallbackResolver
}

func NewStaticFallbackResolver() *StaticFallbackResolver {
	return &StaticFallbackResolver{chains: make(map[string][]string)}
}

// NewLayeredFallbackResolver returns a StaticFallbackResolver whose explicit
// chains take precedence over base.
func NewLayeredFallbackResolver(base FallbackResolver) *StaticFallbackResolver {
	resolver := NewStaticFallbackResolver()
	resolver.base = base
	return resolver
}

// Set replaces the chain for locale. Fallbacks are tried in order.
func (s *StaticFallbackResolver) Set(locale string, fallbacks ...string) {
	key := normalizeLocale(locale)
	chain := make([]string, 0, len(fallbacks))
	seen := map[string]struct{}{key: {}}
	for _, fallback := range fallbacks {
		fallback = normalizeLocale(fallback)
		if fallback == "" {
			continue
		}
		if _, exists := seen[fallback]; exists {
			continue
		}
		seen[fallback] = struct{}{}
		chain = append(chain, fallback)
	}
	s.chains[key] = chain
}

func (s *StaticFallbackResolver) Resolve(locale string) []string {
	locale = normalizeLocale(locale)
	if s != nil {
		if chain, ok := s.chains[locale]; ok {
			return append([]string(nil), chain...)
		}
		if s.base != nil {
			return s.base.Resolve(locale)
		}
	}
	if chain := localeCandidates(locale); len(chain) > 1 {
		return chain[1:]
	}
	return nil
}

// lookupChain returns locale followed by its fallbacks.
func lookupChain(resolver FallbackResolver, locale string) []string {
	locale = normalizeLocale(locale)
	if locale == "" {
		return nil
	}
	if resolver == nil {
		return localeCandidates(locale)
	}
	return append([]string{locale}, resolver.Resolve(locale)...)
}
