package main

// @title           SUMY API
// @version         1.0
// @description     API do assistente SUMY para levantamento de especificações funcionais SAP

// @contact.name   API Support
// @contact.email  suporte@sumy.com.br

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Cabeçalho de autenticação JWT usando o esquema Bearer. Exemplo: "Bearer {token}"
