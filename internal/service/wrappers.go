package service

// InterventionServiceWrapper defines middleware composition for
// InterventionService. Implementations wrap an existing InterventionService
// to add behavior such as logging.
type InterventionServiceWrapper interface {
	Wrap(InterventionService) InterventionService // returns a decorated InterventionService applying additional behavior
}
