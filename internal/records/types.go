package records

// System is the judicial or administrative system a record originates from
type System string

const (
	SystemPROJUDI System = "PROJUDI"
	SystemSEEU    System = "SEEU"
	SystemMPV     System = "MPV"
	SystemSEI     System = "SEI"
)

// Priority of a deadline
type Priority string

const (
	PriorityLow    Priority = "Baixa"
	PriorityMedium Priority = "Média"
	PriorityHigh   Priority = "Alta"
	PriorityUrgent Priority = "Urgente"
)

// DefendantStatus is the custody status of the defendant
type DefendantStatus string

const (
	DefendantInCustody DefendantStatus = "Réu Preso"
	DefendantAtLiberty DefendantStatus = "Em Liberdade"
	DefendantUnknown   DefendantStatus = "Não Informado"
)

// Purpose is the kind of manifestation a deadline asks for
type Purpose string

const (
	PurposeManifestation Purpose = "Manifestação"
	PurposeAwareness     Purpose = "Ciência"
	PurposeFinalPleas    Purpose = "Alegacões Finais"
	PurposeHearing       Purpose = "Oitiva"
	PurposeOpinion       Purpose = "Parecer"
	PurposeIncidents     Purpose = "Pendências de Incidentes"
	PurposeAppealBriefs  Purpose = "Razões/Contrarrazões"
	PurposeFilings       Purpose = "Análise de Juntadas"
	PurposePromotion     Purpose = "Promoção"
	PurposeIndictment    Purpose = "Denúncia"
	PurposeOther         Purpose = "Outros"
)

// AdvisorStatus tracks the advisor's draft preparation
type AdvisorStatus string

const (
	AdvisorPending   AdvisorStatus = "Pendente"
	AdvisorAnalyzing AdvisorStatus = "Analisando"
	AdvisorNoDraft   AdvisorStatus = "Sem Minuta"
	AdvisorDrafted   AdvisorStatus = "Minutado"
	AdvisorRedrafted AdvisorStatus = "Minuta Refeita"
)

// PromoterDecision tracks the promoter's final sign-off
type PromoterDecision string

const (
	DecisionPending       PromoterDecision = "Pendente"
	DecisionSigned        PromoterDecision = "Assinado"
	DecisionBatchSigned   PromoterDecision = "Assinatura em Lote"
	DecisionSignedChanged PromoterDecision = "Assinatura com Alterações"
	DecisionDraftReplaced PromoterDecision = "Minuta Substituída"
	DecisionAppealFiled   PromoterDecision = "Protocolo de recursos"
	DecisionReturned      PromoterDecision = "Devolvido"
)

// AudienceMode is how a hearing takes place
type AudienceMode string

const (
	ModeInPerson AudienceMode = "Presencial"
	ModeVirtual  AudienceMode = "Virtual"
	ModeHybrid   AudienceMode = "Híbrido"
)

// AudienceStatus is the scheduling state of a hearing
type AudienceStatus string

const (
	AudienceScheduled   AudienceStatus = "Agendada"
	AudienceHeld        AudienceStatus = "Realizada"
	AudienceCancelled   AudienceStatus = "Cancelada"
	AudienceRescheduled AudienceStatus = "Redesignada"
)

// AdminStatus is the deadline status of an administrative process
type AdminStatus string

const (
	AdminOnTime   AdminStatus = "Em dia"
	AdminLate     AdminStatus = "Atrasado"
	AdminExtended AdminStatus = "Prorrogado"
)

// PartyType is the role of an interested party in an administrative process
type PartyType string

const (
	PartyLawyer            PartyType = "Advogado"
	PartyInvestigated      PartyType = "Investigado (Pólo Passivo)"
	PartyReported          PartyType = "Noticiado (Pólo Passivo)"
	PartyReporter          PartyType = "Noticiante (Pólo Ativo)"
	PartyInterestedActive  PartyType = "Interessado (Pólo Ativo)"
	PartyInterestedPassive PartyType = "Interessado (Pólo Passivo)"
)

var (
	systems = []System{SystemPROJUDI, SystemSEEU, SystemMPV, SystemSEI}

	priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

	defendantStatuses = []DefendantStatus{DefendantInCustody, DefendantAtLiberty, DefendantUnknown}

	purposes = []Purpose{
		PurposeManifestation, PurposeAwareness, PurposeFinalPleas, PurposeHearing,
		PurposeOpinion, PurposeIncidents, PurposeAppealBriefs, PurposeFilings,
		PurposePromotion, PurposeIndictment, PurposeOther,
	}

	advisorStatuses = []AdvisorStatus{
		AdvisorPending, AdvisorAnalyzing, AdvisorNoDraft, AdvisorDrafted, AdvisorRedrafted,
	}

	promoterDecisions = []PromoterDecision{
		DecisionPending, DecisionSigned, DecisionBatchSigned, DecisionSignedChanged,
		DecisionDraftReplaced, DecisionAppealFiled, DecisionReturned,
	}

	audienceModes = []AudienceMode{ModeInPerson, ModeVirtual, ModeHybrid}

	partyTypes = []PartyType{
		PartyLawyer, PartyInvestigated, PartyReported,
		PartyReporter, PartyInterestedActive, PartyInterestedPassive,
	}
)

// Systems lists the known origin systems
func Systems() []System { return append([]System(nil), systems...) }

// Purposes lists the manifestation purposes in display order
func Purposes() []Purpose { return append([]Purpose(nil), purposes...) }

// AdvisorStatuses lists the advisor workflow states
func AdvisorStatuses() []AdvisorStatus { return append([]AdvisorStatus(nil), advisorStatuses...) }

// PromoterDecisions lists the promoter workflow states
func PromoterDecisions() []PromoterDecision {
	return append([]PromoterDecision(nil), promoterDecisions...)
}

func oneOf[T ~string](value string, allowed []T, fallback T) T {
	for _, v := range allowed {
		if string(v) == value {
			return v
		}
	}
	return fallback
}
