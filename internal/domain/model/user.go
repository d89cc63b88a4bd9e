package model

// Funcionalidades controladas por permissão
const (
	PermissionCadastro          = "cadastro"
	PermissionConsulta          = "consulta"
	PermissionEditar            = "editar"
	PermissionVisitasPendentes  = "visitas-pendentes"
	PermissionVisitasRealizadas = "visitas-realizadas"
	PermissionEstatisticas      = "estatisticas"
	PermissionAudit             = "audit"
	PermissionUsuarios          = "usuarios"
)

// AllPermissions lista todas as funcionalidades conhecidas
func AllPermissions() Permissions {
	return Permissions{
		PermissionCadastro:          true,
		PermissionConsulta:          true,
		PermissionEditar:            true,
		PermissionVisitasPendentes:  true,
		PermissionVisitasRealizadas: true,
		PermissionEstatisticas:      true,
		PermissionAudit:             true,
		PermissionUsuarios:          true,
	}
}

// UserEntity é a representação de banco de dados de um usuário
type UserEntity struct {
	ID          uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	Username    string      `gorm:"uniqueIndex;not null;size:80" json:"username"`
	Password    string      `gorm:"not null;size:120" json:"-"`
	Permissions Permissions `gorm:"column:permissions" json:"permissions"`
	// Bootstrap marca a conta de administrador criada na inicialização
	Bootstrap bool `gorm:"column:bootstrap;default:false" json:"-"`
}

// TableName define o nome da tabela
func (UserEntity) TableName() string {
	return "users"
}
