package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeNotOperational      = "NOT_OPERATIONAL"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeUnknownAirline      = "UNKNOWN_AIRLINE"
	CodeNotActivated        = "NOT_ACTIVATED"
	CodeDuplicateVote       = "DUPLICATE_VOTE"
	CodeInvalidVoter        = "INVALID_VOTER"
	CodeNotNominated        = "NOT_NOMINATED"
	CodeDuplicateFlight     = "DUPLICATE_FLIGHT"
	CodeUnknownFlight       = "UNKNOWN_FLIGHT"
	CodeFlightFinalized     = "FLIGHT_FINALIZED"
	CodePremiumExceedsLimit = "PREMIUM_EXCEEDS_LIMIT"
	CodeDuplicatePolicy     = "DUPLICATE_POLICY"
	CodeInsufficientFee     = "INSUFFICIENT_FEE"
	CodeAlreadyResolved     = "ALREADY_RESOLVED"
	CodeNothingToWithdraw   = "NOTHING_TO_WITHDRAW"
	CodeInvalidArgument     = "INVALID_ARGUMENT"
	CodeNotFound            = "NOT_FOUND"
)

var enUSMessages = map[Code]string{
	CodeNotOperational:      "The consortium is not operational right now.",
	CodeUnauthorized:        "You are not allowed to perform this operation.",
	CodeUnknownAirline:      "Airline {{.Airline}} is not known to the consortium.",
	CodeNotActivated:        "Airline {{.Airline}} must be funded before registering flights.",
	CodeDuplicateVote:       "You have already voted for {{.Candidate}}.",
	CodeInvalidVoter:        "An airline cannot vote for itself.",
	CodeNotNominated:        "{{.Candidate}} is not awaiting votes.",
	CodeDuplicateFlight:     "Flight {{.Flight}} is already registered.",
	CodeUnknownFlight:       "Flight {{.Flight}} is not registered.",
	CodeFlightFinalized:     "Flight {{.Flight}} already has a final status.",
	CodePremiumExceedsLimit: "The premium must be more than zero and at most {{.Max}}.",
	CodeDuplicatePolicy:     "You already hold a policy for flight {{.Flight}}.",
	CodeInsufficientFee:     "A registration fee of {{.Fee}} is required.",
	CodeAlreadyResolved:     "Flight {{.Flight}} has already been resolved.",
	CodeNothingToWithdraw:   "There is nothing to withdraw for flight {{.Flight}}.",
	CodeInvalidArgument:     "The request is invalid.",
	CodeNotFound:            "The requested record was not found.",
}

var ptBRMessages = map[Code]string{
	CodeNotOperational:      "O consórcio não está operacional no momento.",
	CodeUnauthorized:        "Você não tem permissão para realizar esta operação.",
	CodeUnknownAirline:      "A companhia {{.Airline}} não é conhecida pelo consórcio.",
	CodeNotActivated:        "A companhia {{.Airline}} precisa ser financiada antes de registrar voos.",
	CodeDuplicateVote:       "Você já votou em {{.Candidate}}.",
	CodeInvalidVoter:        "Uma companhia não pode votar em si mesma.",
	CodeNotNominated:        "{{.Candidate}} não está aguardando votos.",
	CodeDuplicateFlight:     "O voo {{.Flight}} já está registrado.",
	CodeUnknownFlight:       "O voo {{.Flight}} não está registrado.",
	CodeFlightFinalized:     "O voo {{.Flight}} já possui status final.",
	CodePremiumExceedsLimit: "O prêmio deve ser maior que zero e no máximo {{.Max}}.",
	CodeDuplicatePolicy:     "Você já possui uma apólice para o voo {{.Flight}}.",
	CodeInsufficientFee:     "É necessária uma taxa de registro de {{.Fee}}.",
	CodeAlreadyResolved:     "O voo {{.Flight}} já foi resolvido.",
	CodeNothingToWithdraw:   "Não há nada para sacar no voo {{.Flight}}.",
	CodeInvalidArgument:     "A requisição é inválida.",
	CodeNotFound:            "O registro solicitado não foi encontrado.",
}
