package catalog

import "context"

type Service interface {
	FetchSequential(ctx context.Context) AggregateResponse
	FetchConcurrent(ctx context.Context) AggregateResponse
}

type Usecase struct {
	sequential *SequentialFetcher
	concurrent *ConcurrentFetcher
}

func NewUsecase(r Reader) *Usecase {
	return &Usecase{
		sequential: NewSequentialFetcher(r),
		concurrent: NewConcurrentFetcher(r),
	}
}

func (uc *Usecase) FetchSequential(ctx context.Context) AggregateResponse {
	return uc.sequential.Run(ctx)
}

func (uc *Usecase) FetchConcurrent(ctx context.Context) AggregateResponse {
	return uc.concurrent.Run(ctx)
}
