package wizard

// User-facing messages, in the product's language. The client shows these as
// dismissible banners; every recovery is user-initiated.
const (
	MsgNameRequired      = "Informe seu nome."
	MsgBirthDateRequired = "Informe sua data de nascimento."
	MsgUnderage          = "Você precisa ter pelo menos 18 anos."
	MsgLocationRequired  = "Informe sua localização."
	MsgTagLimit          = "Você pode escolher no máximo 3 opções."
	MsgConnection        = "Verifique sua conexão e tente novamente."
	MsgPermission        = "Você não tem permissão para salvar este perfil."
	MsgConflict          = "Já existe um perfil para esta conta."
	MsgSubmitFailed      = "Não foi possível salvar seu perfil."
	MsgUploadFailed      = "Não foi possível enviar a foto. Tente novamente."
	MsgStorageMissing    = "Armazenamento de fotos não configurado. Contate o suporte."
	MsgUploadInFlight    = "Aguarde o envio da foto atual terminar."
	MsgCurrentLocation   = "Localização atual"
	MsgLocationDenied    = "Permissão de localização negada."
	MsgLocationFailed    = "Não foi possível obter sua localização."
	MsgLocationPending   = "Uma busca de localização já está em andamento."
	MsgVerifyNeedPhoto   = "Adicione sua primeira foto antes de verificar seu perfil."
	MsgVerifyFailed      = "Não foi possível verificar seu perfil. Tente novamente."
	MsgLoadFailed        = "Não foi possível carregar seu perfil."
	MsgNotDirty          = "Nenhuma alteração para salvar."
	MsgNotVerified       = "Conclua a verificação do seu perfil antes de continuar."
	MsgUnknownField      = "Campo desconhecido."
	MsgUnknownList       = "Lista desconhecida."
)
