package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/leaguefilter --output domain/leaguefilter --outpkg leaguefiltermock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Picker --dir ../domain/roulette --output domain/roulette --outpkg roulettemock --filename picker_mock.go
