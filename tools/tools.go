package tools

// PanicOnErr 初始化阶段使用，出错直接退出
func PanicOnErr(err error) {
	if err != nil {
		panic(err)
	}
}
