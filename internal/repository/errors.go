package repository

import "errors"

// 资源池数据层错误
// reserve 的失败语义属于池本身的契约，放在数据访问层而非业务层
var (
	// ErrPoolSlotNotFound 该时间表在此槽位没有资源池记录
	ErrPoolSlotNotFound = errors.New("槽位资源池记录不存在")
	// ErrRoomNotInPool 房间不在该槽位的空闲集合中
	ErrRoomNotInPool = errors.New("房间不在该槽位的空闲池中")
	// ErrFacultyNotInPool 教师不在该槽位的空闲集合中
	ErrFacultyNotInPool = errors.New("教师不在该槽位的空闲池中")
)
