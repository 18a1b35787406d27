package models

// Taxonomies offered by the profile wizard. The client renders these as tag
// pickers; the wizard enforces the selection caps.

var InterestOptions = []string{
	"Música",
	"Leitura",
	"Esportes",
	"Viagens",
	"Culinária",
	"Voluntariado",
	"Cinema",
	"Natureza",
	"Louvor",
	"Fotografia",
}

var KeyValueOptions = []string{
	"Fé em primeiro lugar",
	"Família",
	"Honestidade",
	"Serviço ao próximo",
	"Pureza",
	"Comunhão",
	"Generosidade",
	"Perdão",
}

var LanguageOptions = []string{
	"Português",
	"Inglês",
	"Espanhol",
	"Francês",
	"Italiano",
	"Alemão",
	"Libras",
}

var DenominationOptions = []string{
	DefaultDenomination,
	"Católica",
	"Batista",
	"Presbiteriana",
	"Pentecostal",
	"Metodista",
	"Adventista",
	"Luterana",
}
