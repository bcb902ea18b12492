package autowire

// Shared fixture types for the engine tests.

type Logbook struct {
	lines []string
}

func NewLogbook() *Logbook { return &Logbook{} }

func (l *Logbook) Log(line string) { l.lines = append(l.lines, line) }

type IService interface {
	Do() string
}

type GreetService struct {
	Log *Logbook
}

func NewGreetService(log *Logbook) *GreetService { return &GreetService{Log: log} }

func (s *GreetService) Do() string { return "greet" }

type CachingService struct {
	Inner IService
}

func NewCachingService(inner IService) *CachingService { return &CachingService{Inner: inner} }

func (s *CachingService) Do() string { return "cached:" + s.Inner.Do() }

type AuditService struct {
	Inner IService
	Log   *Logbook
}

func NewAuditService(inner IService, log *Logbook) *AuditService {
	return &AuditService{Inner: inner, Log: log}
}

func (s *AuditService) Do() string { return "audit:" + s.Inner.Do() }

type Cache struct {
	entries map[string]string
}

func NewCache() *Cache { return &Cache{entries: make(map[string]string)} }

type Consumer struct {
	Cache *Cache
}

func NewConsumer(cache *Cache) *Consumer { return &Consumer{Cache: cache} }

// captureLogger records log lines for assertions.
type captureLogger struct {
	warnings []string
}

func (c *captureLogger) Infof(string, ...any)             {}
func (c *captureLogger) Warnf(format string, args ...any) { c.warnings = append(c.warnings, format) }
func (c *captureLogger) Errorf(string, ...any)            {}

// serviceModule is the fixture program of the happy-path end-to-end
// scenario: a singleton logbook, a singleton service exposed as
// IService and a caching decorator at order 1.
func serviceModule() *Module {
	return NewModule("example.com/fixture/service",
		Provide(NewLogbook),
		Provide(NewGreetService),
		Provide(NewCachingService, AsDecorator((*IService)(nil), 1)),
		Export((*IService)(nil)),
	)
}

// captiveModule is the fixture program of the captive-dependency
// scenario: a singleton consumer holding a scoped cache.
func captiveModule() *Module {
	return NewModule("example.com/fixture/captive",
		Provide(NewCache, WithLifetime(Scoped)),
		Provide(NewConsumer),
	)
}
