package service

type Services struct {
	engine Engine
}

func NewServices(engine Engine) *Services {
	return &Services{engine: engine}
}

func (s *Services) Search() SearchService {
	return NewSearchService(s.engine)
}
